package job

import "time"

// BackgroundThreshold is the cutoff between inline and background
// processing: anything estimated to take longer runs as a queued job.
const BackgroundThreshold = 5 * time.Second

const (
	smallFileBytes = int64(1) << 20
	largeFileBytes = int64(10) << 20

	smallFileCost  = 100 * time.Millisecond
	mediumFileCost = 300 * time.Millisecond
	largeFileCost  = 500 * time.Millisecond
)

// EstimateDuration predicts processing time from item sizes. The per-item
// cost buckets are deliberately coarse; the estimate only has to land on
// the right side of BackgroundThreshold.
func EstimateDuration(sizes []int64) time.Duration {
	var total time.Duration
	for _, size := range sizes {
		switch {
		case size < smallFileBytes:
			total += smallFileCost
		case size <= largeFileBytes:
			total += mediumFileCost
		default:
			total += largeFileCost
		}
	}
	return total
}

// ShouldRunInBackground reports whether the estimated work belongs on the
// queue rather than in the request path.
func ShouldRunInBackground(sizes []int64) bool {
	return EstimateDuration(sizes) > BackgroundThreshold
}
