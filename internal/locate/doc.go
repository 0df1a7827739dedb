// Package locate finds where an icon sits inside a larger image.
//
// A Locator turns both images into orientation-histogram feature images,
// matches every icon patch against the scene with patchmatch.Solve, and
// reduces the resulting displacement field to a single Placement: each icon
// pixel votes for the icon origin its match implies, and the weighted median
// of those votes wins.
//
// # Usage
//
//	l := locate.NewLocator(logger)
//	res, err := l.Locate(ctx, icon, scene)
//	if err != nil {
//		return err
//	}
//	fmt.Println(res.Placement.Box())
package locate
