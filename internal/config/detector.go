package config

import (
	"PersonTracking/pkg/detector"
	websocketPkg "PersonTracking/pkg/websocket"
	"fmt"
	"github.com/sirupsen/logrus"
)

// NewDetector assembles the composite detector: the configured remote backend
// first, then the local ONNX model when one is configured. The returned
// cleanup releases backend resources.
func NewDetector(env Env, logger *logrus.Logger) (detector.IDetector, func(), error) {
	var (
		backends []detector.Backend
		closers  []func()
	)

	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	switch env.DetectorPrimary {
	case "ws":
		if env.DetectorWSURL != "" {
			client := websocketPkg.NewDetectionClient(env.DetectorWSURL, logger)
			backends = append(backends, client)
			closers = append(closers, client.Close)
		}
	default:
		if env.DetectorURL != "" {
			backend, err := detector.NewHTTPBackend(env.DetectorURL, env.DetectorConfidence, env.DetectorNMS)
			if err != nil {
				return nil, cleanup, err
			}
			backends = append(backends, backend)
		}
	}

	if env.ONNXModelPath != "" {
		backend, err := detector.NewONNXBackend(detector.ONNXConfig{
			ModelPath:   env.ONNXModelPath,
			LibraryPath: env.ONNXLibraryPath,
			InputSize:   env.ONNXInputSize,
			PoolSize:    env.ONNXPoolSize,
		})
		if err != nil {
			logger.WithField("error", err.Error()).Warn("Local ONNX fallback disabled")
		} else {
			backends = append(backends, backend)
			if c, ok := backend.(interface{ Close() }); ok {
				closers = append(closers, c.Close)
			}
		}
	}

	if len(backends) == 0 {
		return nil, cleanup, fmt.Errorf("no detection backend configured: set DETECTOR_URL, DETECTOR_WS_URL or ONNX_MODEL_PATH")
	}

	names := make([]string, 0, len(backends))
	for _, b := range backends {
		names = append(names, b.Name())
	}
	logger.WithField("backends", names).Info("Detection backends configured")

	composite, err := detector.NewComposite(logger, detector.Config{
		Timeout:             env.DetectorTimeout,
		ConfidenceThreshold: env.DetectorConfidence,
		NMSThreshold:        env.DetectorNMS,
	}, backends...)
	if err != nil {
		return nil, cleanup, err
	}

	return composite, cleanup, nil
}
