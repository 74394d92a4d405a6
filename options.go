package vexpr

type options struct {
	parallelism int
	logger      *Logger
}

// Option configures an Evaluator.
type Option func(*options)

// WithParallelism sets the number of workers used for the element-wise map
// of each operator.
//
// n == 1 evaluates serially. n <= 0 uses runtime.GOMAXPROCS(0). Parallelism
// is always within one operator's row range, never across expression nodes,
// so results are bit-exact regardless of the setting.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithLogger configures structured logging for evaluations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		parallelism: 1,
		logger:      NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
