// Package render draws scene snapshots to PNG for the inspection
// endpoint. Purely a debugging aid; nothing here feeds back into queries.
package render

import (
	"io"

	"github.com/fogleman/gg"

	"convex2d/internal/scene"
)

// Frame rasterizes a snapshot and writes it as PNG. World units map to
// pixels via pixPerUnit with the origin at the image center, y up.
func Frame(w io.Writer, snap *scene.Snapshot, width, height int, pixPerUnit float64) error {
	dc := gg.NewContext(width, height)
	dc.SetRGB(0.08, 0.09, 0.11)
	dc.Clear()

	toX := func(x float64) float64 { return float64(width)/2 + x*pixPerUnit }
	toY := func(y float64) float64 { return float64(height)/2 - y*pixPerUnit }

	if snap == nil {
		return dc.EncodePNG(w)
	}

	// Body AABBs first, faint.
	dc.SetRGBA(0.4, 0.4, 0.5, 0.35)
	dc.SetLineWidth(1)
	for _, b := range snap.Bodies {
		dc.DrawRectangle(toX(b.AABB[0]), toY(b.AABB[3]),
			(b.AABB[2]-b.AABB[0])*pixPerUnit, (b.AABB[3]-b.AABB[1])*pixPerUnit)
		dc.Stroke()
	}

	// Shapes.
	dc.SetLineWidth(2)
	for _, b := range snap.Bodies {
		for _, sh := range b.Shapes {
			if sh.Interaction == "sensor" {
				dc.SetRGB(0.85, 0.75, 0.2)
			} else {
				dc.SetRGB(0.45, 0.75, 0.95)
			}
			switch sh.Kind {
			case "circle":
				dc.DrawCircle(toX(sh.Center[0]), toY(sh.Center[1]), sh.Radius*pixPerUnit)
				dc.Stroke()
			case "polygon":
				for i, v := range sh.Verts {
					if i == 0 {
						dc.MoveTo(toX(v[0]), toY(v[1]))
					} else {
						dc.LineTo(toX(v[0]), toY(v[1]))
					}
				}
				dc.ClosePath()
				dc.Stroke()
			}
		}
	}

	// Witness segment of the closest pair.
	if p := snap.Closest; p != nil {
		if p.Overlap {
			dc.SetRGB(0.95, 0.3, 0.3)
		} else {
			dc.SetRGB(0.3, 0.9, 0.4)
		}
		dc.DrawLine(toX(p.PointA[0]), toY(p.PointA[1]), toX(p.PointB[0]), toY(p.PointB[1]))
		dc.Stroke()
		dc.DrawCircle(toX(p.PointA[0]), toY(p.PointA[1]), 3)
		dc.Fill()
		dc.DrawCircle(toX(p.PointB[0]), toY(p.PointB[1]), 3)
		dc.Fill()
	}

	// Cast path and hits.
	dc.SetRGBA(0.9, 0.9, 0.9, 0.5)
	dc.SetLineWidth(1)
	dc.DrawLine(toX(snap.Cast.Start[0]), toY(snap.Cast.Start[1]),
		toX(snap.Cast.End[0]), toY(snap.Cast.End[1]))
	dc.Stroke()
	dc.SetRGB(0.95, 0.5, 0.15)
	for _, h := range snap.Cast.Hits {
		x, y := toX(h.Position[0]), toY(h.Position[1])
		dc.DrawCircle(x, y, 4)
		dc.Stroke()
		dc.DrawLine(x, y, x+h.Normal[0]*16, y-h.Normal[1]*16)
		dc.Stroke()
	}

	return dc.EncodePNG(w)
}
