// Package charts renders the dashboard images as SVG.
package charts

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"text/template"

	"github.com/blogem/loan-approval/models"
)

// Colors of the two decision categories
const (
	ApprovedColor = "#2e7d32"
	RejectedColor = "#c62828"
)

const (
	width  = 640
	height = 360
)

var funcs = template.FuncMap{
	"f":          func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"half":       func(v int) int { return v / 2 },
	"legendY":    func(i int) int { return 150 + i*28 },
	"legendText": func(i int) int { return 163 + i*28 },
}

var pieTemplate = template.Must(template.New("pie").Funcs(funcs).Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}" font-family="sans-serif">
<title>Loan decisions</title>
<text x="{{.Width | half}}" y="28" text-anchor="middle" font-size="18">Approved vs Rejected</text>
{{- if .Full}}
<circle cx="{{f .CX}}" cy="{{f .CY}}" r="{{f .R}}" fill="{{.FullColor}}"/>
{{- else}}
{{- range .Slices}}
<path d="M {{f $.CX}} {{f $.CY}} L {{f .X1}} {{f .Y1}} A {{f $.R}} {{f $.R}} 0 {{.Large}} 1 {{f .X2}} {{f .Y2}} Z" fill="{{.Color}}"/>
{{- end}}
{{- end}}
{{- range $i, $s := .Slices}}
<rect x="440" y="{{legendY $i}}" width="16" height="16" fill="{{$s.Color}}"/>
<text x="464" y="{{legendText $i}}" font-size="14">{{$s.Label}}: {{$s.Count}} ({{printf "%.1f" $s.Percent}}%)</text>
{{- end}}
</svg>
`))

var histogramTemplate = template.Must(template.New("histogram").Funcs(funcs).Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}" font-family="sans-serif">
<title>Applicant income by decision</title>
<text x="{{.Width | half}}" y="28" text-anchor="middle" font-size="18">Applicant income by decision</text>
<line x1="{{f .Left}}" y1="{{f .Bottom}}" x2="{{f .Right}}" y2="{{f .Bottom}}" stroke="#333"/>
<line x1="{{f .Left}}" y1="{{f .Top}}" x2="{{f .Left}}" y2="{{f .Bottom}}" stroke="#333"/>
<text x="{{f .Left}}" y="{{f .Top}}" text-anchor="end" font-size="11" dx="-4">{{.MaxCount}}</text>
<text x="{{f .Left}}" y="{{f .Bottom}}" text-anchor="end" font-size="11" dx="-4">0</text>
{{- range .Bars}}
{{- if gt .RejectedHeight 0.0}}
<rect x="{{f .X}}" y="{{f .RejectedY}}" width="{{f .Width}}" height="{{f .RejectedHeight}}" fill="{{$.RejectedColor}}"/>
{{- end}}
{{- if gt .ApprovedHeight 0.0}}
<rect x="{{f .X}}" y="{{f .ApprovedY}}" width="{{f .Width}}" height="{{f .ApprovedHeight}}" fill="{{$.ApprovedColor}}"/>
{{- end}}
<text x="{{f .LabelX}}" y="{{f $.LabelY}}" text-anchor="middle" font-size="10">{{.Label}}</text>
{{- end}}
<rect x="{{f .LegendX}}" y="40" width="12" height="12" fill="{{.ApprovedColor}}"/>
<text x="{{f .LegendTextX}}" y="50" font-size="12">Approved</text>
<rect x="{{f .LegendX}}" y="58" width="12" height="12" fill="{{.RejectedColor}}"/>
<text x="{{f .LegendTextX}}" y="68" font-size="12">Rejected</text>
</svg>
`))

type slice struct {
	Label   string
	Color   string
	Count   int
	Percent float64
	X1, Y1  float64
	X2, Y2  float64
	Large   int
}

// DecisionPie renders the approved/rejected proportions as a pie chart
func DecisionPie(w io.Writer, report *models.Report) error {
	data := struct {
		Width, Height int
		CX, CY, R     float64
		Full          bool
		FullColor     string
		Slices        []slice
	}{
		Width:  width,
		Height: height,
		CX:     220,
		CY:     190,
		R:      140,
		Slices: []slice{
			{Label: "Approved", Color: ApprovedColor, Count: report.Approved, Percent: report.ApprovedShare},
			{Label: "Rejected", Color: RejectedColor, Count: report.Rejected, Percent: report.RejectedShare},
		},
	}

	switch {
	case report.Total == 0:
		data.Full = true
		data.FullColor = "#bdbdbd"
	case report.Approved == report.Total:
		data.Full = true
		data.FullColor = ApprovedColor
	case report.Rejected == report.Total:
		data.Full = true
		data.FullColor = RejectedColor
	default:
		// Slices start at 12 o'clock and run clockwise
		angle := -math.Pi / 2
		for i := range data.Slices {
			s := &data.Slices[i]
			sweep := 2 * math.Pi * float64(s.Count) / float64(report.Total)
			s.X1 = data.CX + data.R*math.Cos(angle)
			s.Y1 = data.CY + data.R*math.Sin(angle)
			angle += sweep
			s.X2 = data.CX + data.R*math.Cos(angle)
			s.Y2 = data.CY + data.R*math.Sin(angle)
			if sweep > math.Pi {
				s.Large = 1
			}
		}
	}

	return render(w, pieTemplate, data)
}

type bar struct {
	X, Width                  float64
	LabelX                    float64
	Label                     string
	ApprovedY, ApprovedHeight float64
	RejectedY, RejectedHeight float64
}

// IncomeHistogram renders the income bins as stacked bars, rejected below approved
func IncomeHistogram(w io.Writer, report *models.Report) error {
	const (
		left   = 60.0
		right  = 520.0
		top    = 50.0
		bottom = 310.0
	)

	maxCount := 0
	for _, b := range report.Income {
		if b.Count() > maxCount {
			maxCount = b.Count()
		}
	}

	data := struct {
		Width, Height            int
		Left, Right, Top, Bottom float64
		LabelY                   float64
		LegendX, LegendTextX     float64
		MaxCount                 int
		Bars                     []bar
		ApprovedColor            string
		RejectedColor            string
	}{
		Width:         width,
		Height:        height,
		Left:          left,
		Right:         right,
		Top:           top,
		Bottom:        bottom,
		LabelY:        bottom + 16,
		LegendX:       right + 16,
		LegendTextX:   right + 32,
		MaxCount:      maxCount,
		ApprovedColor: ApprovedColor,
		RejectedColor: RejectedColor,
	}

	if n := len(report.Income); n > 0 && maxCount > 0 {
		slot := (right - left) / float64(n)
		scale := (bottom - top) / float64(maxCount)
		for i, b := range report.Income {
			x := left + float64(i)*slot
			rejected := float64(b.Rejected) * scale
			approved := float64(b.Approved) * scale
			data.Bars = append(data.Bars, bar{
				X:              x + 2,
				Width:          slot - 4,
				LabelX:         x + slot/2,
				Label:          compact(b.Lower),
				RejectedY:      bottom - rejected,
				RejectedHeight: rejected,
				ApprovedY:      bottom - rejected - approved,
				ApprovedHeight: approved,
			})
		}
	}

	return render(w, histogramTemplate, data)
}

func render(w io.Writer, tmpl *template.Template, data interface{}) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// compact formats an axis value as 1.2k / 3.4M
func compact(v float64) string {
	switch abs := math.Abs(v); {
	case abs >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.1fk", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
