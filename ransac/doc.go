// Package ransac implements a generic random-sample-consensus engine
// for robust model fitting over observations containing outliers.
//
// The engine is parameterized over the observation and model types via
// an Estimator/Evaluator strategy pair, so concrete use cases
// (fundamental matrices, calibration offsets, ...) plug in without the
// engine knowing their geometry.
package ransac
