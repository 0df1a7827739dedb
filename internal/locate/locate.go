package locate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/iconfit/internal/feature"
	"github.com/ironsheep/iconfit/internal/hog"
	"github.com/ironsheep/iconfit/internal/imaging"
	"github.com/ironsheep/iconfit/internal/patchmatch"
)

var (
	// ErrInvalidOptions reports locator settings that cannot be used.
	ErrInvalidOptions = errors.New("locate: invalid options")

	// ErrIconTooLarge reports an icon wider or taller than the scene.
	ErrIconTooLarge = errors.New("locate: icon larger than scene")
)

// Locator holds the settings of every pipeline stage.
type Locator struct {
	Gradient imaging.GradientOptions
	HOG      hog.Options
	Patch    feature.Options
	Solver   patchmatch.Options
	Options  Options

	// Logger receives debug output. Nil discards it.
	Logger *log.Logger
}

// NewLocator returns a locator with default settings for small icons.
func NewLocator(logger *log.Logger) *Locator {
	return &Locator{
		Gradient: imaging.DefaultGradientOptions(),
		HOG:      hog.DefaultOptions(),
		Patch:    feature.Options{BlockSize: 3, Stride: 2},
		Solver:   patchmatch.DefaultOptions(),
		Options:  DefaultOptions(),
		Logger:   logger,
	}
}

// Result is the outcome of one Locate call.
type Result struct {
	// RunID identifies the run in logs and in the server's run registry.
	RunID string `json:"run_id"`

	Placement Placement `json:"placement"`

	Rounds  int    `json:"rounds"`
	Updates []int  `json:"updates"`
	Seed    uint64 `json:"seed"`

	// ElapsedMS is the wall time of the whole pipeline.
	ElapsedMS int64 `json:"elapsed_ms"`

	// Field maps every icon pixel to its best scene pixel.
	Field *patchmatch.Field `json:"-"`
}

// Validate checks every stage's settings.
func (l *Locator) Validate() error {
	if err := l.HOG.Validate(); err != nil {
		return err
	}
	if err := l.Patch.Validate(); err != nil {
		return err
	}
	if err := l.Solver.Validate(); err != nil {
		return err
	}
	return l.Options.Validate()
}

// Locate finds icon inside scene.
//
// The two feature images are extracted concurrently. ctx is checked between
// stages; the solver itself runs to completion once started.
func (l *Locator) Locate(ctx context.Context, icon, scene image.Image) (*Result, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	ib, sb := icon.Bounds(), scene.Bounds()
	if ib.Empty() || sb.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidOptions)
	}
	if ib.Dx() > sb.Dx() || ib.Dy() > sb.Dy() {
		return nil, fmt.Errorf("%w: icon %dx%d, scene %dx%d", ErrIconTooLarge, ib.Dx(), ib.Dy(), sb.Dx(), sb.Dy())
	}

	runID := uuid.NewString()
	logger := l.logger()
	start := time.Now()

	var iconFeatures, sceneFeatures *feature.Image
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := l.extract(gctx, icon)
		if err != nil {
			return fmt.Errorf("icon features: %w", err)
		}
		iconFeatures = f
		return nil
	})
	g.Go(func() error {
		f, err := l.extract(gctx, scene)
		if err != nil {
			return fmt.Errorf("scene features: %w", err)
		}
		sceneFeatures = f
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Printf("run %s: features icon %dx%d scene %dx%d in %v",
		runID, iconFeatures.Width, iconFeatures.Height, sceneFeatures.Width, sceneFeatures.Height, time.Since(start))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source, err := feature.NewBlockImage(sceneFeatures, l.Patch)
	if err != nil {
		return nil, err
	}
	target, err := feature.NewBlockImage(iconFeatures, l.Patch)
	if err != nil {
		return nil, err
	}

	solveStart := time.Now()
	solved, err := patchmatch.Solve(source, target, l.Solver)
	if err != nil {
		return nil, err
	}
	logger.Printf("run %s: %d rounds, updates %v, seed %d in %v",
		runID, solved.Rounds, solved.Updates, solved.Seed, time.Since(solveStart))

	placement := Aggregate(solved.Field, l.Options)
	logger.Printf("run %s: placement (%d,%d) spread %.2f support %.2f",
		runID, placement.X, placement.Y, placement.Spread, placement.Support)

	return &Result{
		RunID:     runID,
		Placement: placement,
		Rounds:    solved.Rounds,
		Updates:   solved.Updates,
		Seed:      solved.Seed,
		ElapsedMS: time.Since(start).Milliseconds(),
		Field:     solved.Field,
	}, nil
}

// Features computes the normalised orientation-histogram image of img with
// the locator's gradient and histogram settings.
func (l *Locator) Features(ctx context.Context, img image.Image) (*feature.Image, error) {
	if err := l.HOG.Validate(); err != nil {
		return nil, err
	}
	return l.extract(ctx, img)
}

func (l *Locator) extract(ctx context.Context, img image.Image) (*feature.Image, error) {
	grad, err := imaging.ComputeGradient(img, l.Gradient)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return hog.Extract(grad, l.HOG)
}

func (l *Locator) logger() *log.Logger {
	if l.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return l.Logger
}
