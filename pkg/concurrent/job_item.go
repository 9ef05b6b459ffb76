package concurrent

// RenderJob asks for one solution to be fetched, rendered and exported.
type RenderJob struct {
	Index      int
	SolutionID string
}

type RenderResult struct {
	Index      int
	SolutionID string
	Output     string
	Routes     int
	Err        error
}

type JobI interface {
	RenderJob
}

type JobFunc[T JobI, G any] func(job T) G
