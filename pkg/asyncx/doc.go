// Package asyncx holds the ordered fan-out helpers used by the batch file
// operations.
//
// [Pool] is the workhorse: it processes a slice with a bounded number of
// workers and returns results in input order. With a single worker it is a
// strictly sequential map, which is how multi-file writes and reads keep the
// result at index i tied to the request at index i.
//
//	paths, err := asyncx.Pool(ctx, 1, specs, func(ctx context.Context, s FileSpec) (string, error) {
//	    return helper.WriteFile(ctx, s.Path, s.Data)
//	})
//
// The first error stops the remaining work: items not yet started are
// skipped and the error is returned. [Map] and [ForEach] are the unbounded
// variants for independent work.
//
// Goroutines are never abandoned; every helper waits for the work it started
// before returning.
package asyncx
