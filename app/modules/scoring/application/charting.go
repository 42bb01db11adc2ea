package scoringservice

import (
	"bytes"
	"fmt"

	scoringdb "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/infrastructure/repositories"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colors of rendered charts.
type ChartPalette struct {
	Background drawing.Color
	Text       drawing.Color
	Alive      drawing.Color
	Eliminated drawing.Color
}

var defaultPalette = ChartPalette{
	Background: drawing.ColorFromHex("0f1a14"),
	Text:       drawing.ColorFromHex("e8efe9"),
	Alive:      drawing.ColorFromHex("2e8b57"),
	Eliminated: drawing.ColorFromHex("8b2e2e"),
}

const maxLabelLength = 12

// GenerateStandingsChart renders one bar per member, eliminated members in their own color.
func GenerateStandingsChart(standings []scoringdb.Standing, palette ChartPalette) ([]byte, error) {
	if len(standings) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	bars := make([]chart.Value, len(standings))
	top := 0
	for i, st := range standings {
		fill := palette.Alive
		if st.Eliminated {
			fill = palette.Eliminated
		}
		bars[i] = chart.Value{
			Label: barLabel(st),
			Value: float64(st.CorrectPicks),
			Style: chart.Style{FillColor: fill, StrokeColor: fill},
		}
		top = max(top, st.CorrectPicks)
	}

	graph := chart.BarChart{
		Title:      "Correct picks",
		TitleStyle: chart.Style{FontColor: palette.Text},
		Width:      max(400, 80*len(bars)),
		Height:     400,
		BarWidth:   40,
		BarSpacing: 30,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40},
		},
		Canvas: chart.Style{FillColor: palette.Background},
		XAxis:  chart.Style{FontColor: palette.Text},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: palette.Text},
			// An explicit range keeps all-zero leagues renderable.
			Range: &chart.ContinuousRange{Min: 0, Max: float64(top + 1)},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render standings chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func barLabel(st scoringdb.Standing) string {
	label := st.UserID
	if runes := []rune(label); len(runes) > maxLabelLength {
		label = string(runes[:maxLabelLength-1]) + "…"
	}
	if st.Rank != nil {
		label = fmt.Sprintf("#%d %s", *st.Rank, label)
	}
	return label
}

func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No standings yet"
	)

	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to create placeholder renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("failed to load chart font: %w", err)
	}

	r.SetFillColor(palette.Background)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(palette.Text)
	r.SetFontSize(12.0)
	tb := r.MeasureText(msg)
	r.Text(msg, (width-tb.Width())/2, (height+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, fmt.Errorf("failed to render placeholder chart: %w", err)
	}
	return buffer.Bytes(), nil
}
