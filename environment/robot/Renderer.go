package robot

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sync"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"github.com/samuelfneumann/highrl/scenario"
)

// Renderer draws navigation frames to PNG files. All access to the
// drawing surface happens under a single lock, so Render may be called
// from a goroutine other than the one stepping the environment.
type Renderer struct {
	mu     sync.Mutex
	dc     *gg.Context
	dir    string
	width  float64
	height float64
	frame  int

	background color.Color
	obstacle   color.Color
	goal       color.Color
	goalLine   color.Color
	body       color.Color
	nose       color.Color
}

// NewRenderer returns a Renderer that writes frames of a width x height
// arena into dir, creating it if needed
func NewRenderer(dir string, width, height float64) (*Renderer, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "newRenderer: could not create %v",
			dir)
	}

	return &Renderer{
		dc:         gg.NewContext(int(width), int(height)),
		dir:        dir,
		width:      width,
		height:     height,
		background: color.RGBA{R: 102, G: 204, B: 102, A: 255},
		obstacle:   color.RGBA{R: 76, G: 76, B: 76, A: 255},
		goal:       color.RGBA{R: 255, G: 255, B: 76, A: 255},
		goalLine:   color.RGBA{R: 92, G: 184, B: 92, A: 255},
		body:       color.White,
		nose:       color.RGBA{R: 76, G: 76, B: 76, A: 255},
	}, nil
}

// Frames returns the number of frames rendered so far
func (r *Renderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame
}

// Render draws the robot, its goal and the obstacles of s and saves the
// frame as the next numbered PNG in the output directory
func (r *Renderer) Render(robot Robot, s scenario.Scenario) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dc := r.dc
	dc.SetColor(r.background)
	dc.Clear()

	// Obstacles
	dc.SetColor(r.obstacle)
	dc.SetLineWidth(2.0)
	for _, contour := range s.Obstacles.Contours() {
		dc.ClearPath()
		for _, v := range contour {
			dc.LineTo(v.X, r.flip(v.Y))
		}
		dc.ClosePath()
		dc.Stroke()
	}

	p := robot.Position()

	// Goal line
	dc.SetColor(r.goalLine)
	dc.DrawLine(p.X, r.flip(p.Y), robot.Goal.X, r.flip(robot.Goal.Y))
	dc.Stroke()

	// Goal
	dc.SetColor(r.goal)
	dc.DrawCircle(robot.Goal.X, r.flip(robot.Goal.Y), robot.Radius/2)
	dc.Fill()

	// Robot body
	dc.SetColor(r.body)
	dc.DrawCircle(p.X, r.flip(p.Y), robot.Radius)
	dc.Fill()

	// Direction marker
	dc.Push()
	dc.RotateAbout(-robot.Pose.Theta, p.X, r.flip(p.Y))
	dc.SetColor(r.nose)
	dc.MoveTo(p.X+robot.Radius, r.flip(p.Y))
	dc.LineTo(p.X, r.flip(p.Y)-0.3*robot.Radius)
	dc.LineTo(p.X, r.flip(p.Y)+0.3*robot.Radius)
	dc.ClosePath()
	dc.Fill()
	dc.Pop()

	path := filepath.Join(r.dir, fmt.Sprintf("Navigation_%06d.png", r.frame))
	if err := dc.SavePNG(path); err != nil {
		return errors.Wrapf(err, "render: could not save frame %d", r.frame)
	}
	r.frame++
	return nil
}

// flip converts a world y-coordinate into an image row
func (r *Renderer) flip(y float64) float64 {
	return r.height - y
}
