// Package lazy provides memoizing containers for values that are expensive
// to compute and should be computed at most once.
//
// A lazy value wraps a Supplier and defers calling it until the first Get.
// The first successful result is cached for the lifetime of the container.
// Failures are not cached: a Get that fails leaves the container usable, and
// a later Get runs the supplier again.
//
// Two variants implement the same Value capability:
//
//   - SingleThreaded keeps no synchronization and must be confined to one
//     goroutine.
//   - Concurrent may be shared freely. Its supplier succeeds exactly once no
//     matter how many goroutines call Get, and every caller observes the same
//     value. Once the value is published, Get is a single atomic load.
//
// A supplier that produces an absent value (a nil pointer, interface, map,
// slice, channel or func) is treated as a failure and reported as
// ErrNullResult.
//
// Example:
//
//	conf, err := lazy.NewConcurrent(func() (*Config, error) {
//	    return loadConfig("app.yaml")
//	}, lazy.WithLogger(logger), lazy.WithName("config"))
//	if err != nil {
//	    return err
//	}
//	c, err := conf.Get()
package lazy
