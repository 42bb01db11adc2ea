package results

import (
	"errors"
	"testing"
)

func TestOperationResult(t *testing.T) {
	ok := SuccessResult[int, error](42)
	if !ok.IsSuccess() || ok.IsFailure() {
		t.Fatalf("expected success result, got %+v", ok)
	}
	if *ok.Success != 42 {
		t.Errorf("expected 42, got %d", *ok.Success)
	}

	sentinel := errors.New("boom")
	bad := FailureResult[int, error](sentinel)
	if bad.IsSuccess() || !bad.IsFailure() {
		t.Fatalf("expected failure result, got %+v", bad)
	}
	if !errors.Is(*bad.Failure, sentinel) {
		t.Errorf("expected failure to wrap sentinel, got %v", *bad.Failure)
	}

	var zero OperationResult[int, error]
	if zero.IsSuccess() || zero.IsFailure() {
		t.Errorf("zero value should be neither success nor failure")
	}
}
