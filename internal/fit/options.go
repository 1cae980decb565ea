package fit

// Options configures Adam-fitted maximum likelihood estimation of the
// point-process GLM.
type Options struct {
	NumBases     int
	MaxIter      int
	LearningRate float64
	Lambda1      float64
	Lambda2      float64
	Tolerance    float64

	// Adam hyperparameters; fixed per spec but exposed for tests that need
	// to exercise pathological settings.
	Beta1   float64
	Beta2   float64
	Epsilon float64

	QuadraturePoints int
}

// MinEventsPerTarget is the minimum number of a type's own events required
// to fit that type as a target.
const MinEventsPerTarget = 10

// DefaultOptions returns the spec's default fitting options.
func DefaultOptions() Options {
	return Options{
		NumBases:         6,
		MaxIter:          150,
		LearningRate:     0.01,
		Lambda1:          0.01,
		Lambda2:          0.001,
		Tolerance:        1e-6,
		Beta1:            0.9,
		Beta2:            0.999,
		Epsilon:          1e-8,
		QuadraturePoints: 50,
	}
}
