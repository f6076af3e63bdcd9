package trackingService

import (
	"PersonTracking/internal/api/tracking"
	"PersonTracking/internal/entity"
	"PersonTracking/pkg/detector"
	"PersonTracking/pkg/imaging"
	"PersonTracking/pkg/matcher"
	"PersonTracking/pkg/nlp"
	"PersonTracking/pkg/s3"
	trackingPkg "PersonTracking/pkg/tracking"
	"PersonTracking/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type ITrackingService interface {
	ProcessFrame(ctx context.Context, req tracking.ProcessFrameRequest) (*tracking.ProcessFrameResponse, error)
	AnalyzeFrame(ctx context.Context, frame []byte, criteria entity.SearchCriteria) (*tracking.FrameAnalysis, error)
	ExtractCriteria(prompt string) entity.SearchCriteria
	GetActiveTracks(ctx context.Context) tracking.TracksResponse
	GetTrackByID(ctx context.Context, trackingID string) (entity.PersonTrack, error)
	DetectorHealth(ctx context.Context) tracking.DetectorHealthResponse
}

type trackingService struct {
	log       *logrus.Logger
	detector  detector.IDetector
	decoder   imaging.Decoder
	extractor nlp.IPromptExtractor
	scorer    *matcher.Scorer
	registry  trackingPkg.IRegistry
	s3        s3.ItfS3
	utils     utils.IUtils
}

func NewTrackingService(
	log *logrus.Logger,
	detector detector.IDetector,
	decoder imaging.Decoder,
	extractor nlp.IPromptExtractor,
	scorer *matcher.Scorer,
	registry trackingPkg.IRegistry,
	s3 s3.ItfS3,
	utils utils.IUtils,
) ITrackingService {
	return &trackingService{
		log:       log,
		detector:  detector,
		decoder:   decoder,
		extractor: extractor,
		scorer:    scorer,
		registry:  registry,
		s3:        s3,
		utils:     utils,
	}
}
