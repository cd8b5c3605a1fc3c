// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	session_api "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/api"
	internal_capture "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/capture"
	internal_matcher "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/matcher"
	internal_persistence "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/persistence"
	internal_pool "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/pool"
	internal_reciprocal "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/reciprocal"
	internal_recognizer "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/recognizer"
	internal_transcribe "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/transcribe"
	internal_type "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/type"
	session_router "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/router"
	"github.com/delloop-lab/mypracticehelper-sub000/config"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/commons"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/utils"
)

func main() {
	v, err := config.InitConfig()
	if err != nil {
		log.Fatalf("unable to read config: %v", err)
	}
	cfg, err := config.GetAppConfig(v)
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := commons.NewApplicationLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("unable to initialize logger: %v", err)
	}

	httpClient := resty.New().SetTimeout(2 * time.Minute)

	var transcriber internal_type.Transcriber
	switch cfg.TranscriptionBackend {
	case "openai":
		transcriber = internal_transcribe.NewOpenAITranscriber(logger, cfg.OpenAIApiKey)
	default:
		transcriber = internal_transcribe.NewHouseTranscriber(logger, httpClient, cfg.TranscriptionHost)
	}
	structurer := internal_transcribe.NewStructurer(logger, httpClient, cfg.StructuringHost)

	submitter := internal_persistence.NewSubmitter(logger, httpClient, cfg.BackendHost)
	backend := internal_pool.NewBackendClient(logger, httpClient, cfg.BackendHost, cfg.FetchTimeout())

	device := internal_capture.NewStreamDevice(logger)
	recognizer := internal_recognizer.NewLiveRecognizer(logger, cfg.RecognizerHost, cfg.RecognizerKey, utils.Option{})
	controller := internal_capture.NewController(logger, device, recognizer, transcriber, submitter, cfg.StopGrace())
	defer controller.Close()

	pipeline := internal_transcribe.NewUploadPipeline(logger, transcriber, structurer, submitter)
	notes := internal_matcher.NewService(logger, backend)
	queue := internal_reciprocal.NewQueue(logger, backend)

	api := session_api.NewSessionApi(logger, cfg, controller, device, pipeline, notes, queue)
	engine := session_router.NewEngine(cfg, logger, api)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	logger.Infof("%s %s listening on %s", cfg.Name, cfg.Version, addr)
	if err := engine.Run(addr); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
}
