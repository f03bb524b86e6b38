// Package imaging reads colors out of raster images for the color tools.
//
// It decodes and caches images (PNG, JPEG, GIF and WebP), samples single
// pixels as RGB and L*a*b*, turns labelled points into classifier samples,
// and builds L*a*b* histograms of an image or region.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The other functions are stateless
// and only read the images they are given.
//
// # Memory
//
// Cached images stay in memory until evicted. Long-running servers should
// call Evict or Clear when an image is no longer needed.
package imaging
