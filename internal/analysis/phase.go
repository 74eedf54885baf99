package analysis

import (
	"strings"

	"github.com/san-kum/isingsim/internal/meanfield"
)

// PhasePoint is one (temperature, magnetization) pair.
type PhasePoint struct {
	T, M float64
}

// Series is a set of points drawn with a single marker.
type Series struct {
	Marker rune
	Points []PhasePoint
}

// ScanSeries plots |m| of a scan.
func ScanSeries(points []ScanPoint, marker rune) Series {
	s := Series{Marker: marker, Points: make([]PhasePoint, len(points))}
	for i, p := range points {
		s.Points[i] = PhasePoint{T: p.Temperature, M: p.AbsMagnetization}
	}
	return s
}

// CurveSeries plots a mean-field magnetization curve.
func CurveSeries(curve []meanfield.Point, marker rune) Series {
	s := Series{Marker: marker, Points: make([]PhasePoint, len(curve))}
	for i, p := range curve {
		s.Points[i] = PhasePoint{T: p.T, M: p.M}
	}
	return s
}

// PhaseDiagramToASCII scatters every series onto one width x height canvas.
// Later series are drawn over earlier ones. A vertical marker is drawn at
// the mean-field critical temperature when it is in range.
func PhaseDiagramToASCII(width, height int, series ...Series) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	var minX, maxX, minY, maxY float64
	found := false
	for _, s := range series {
		for _, p := range s.Points {
			if !found {
				minX, maxX, minY, maxY = p.T, p.T, p.M, p.M
				found = true
				continue
			}
			minX = min(minX, p.T)
			maxX = max(maxX, p.T)
			minY = min(minY, p.M)
			maxY = max(maxY, p.M)
		}
	}
	if !found {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	if tc := meanfield.CriticalTemperature; tc >= minX && tc <= maxX {
		col := int((tc - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			canvas[row][col] = '│'
		}
	}

	for _, s := range series {
		for _, p := range s.Points {
			col := int((p.T - minX) / rangeX * float64(width-1))
			row := height - 1 - int((p.M-minY)/rangeY*float64(height-1))
			if row >= 0 && row < height && col >= 0 && col < width {
				canvas[row][col] = s.Marker
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
