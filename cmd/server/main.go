package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/Darkweeb21/Friday/internal/automation"
	"github.com/Darkweeb21/Friday/internal/chat"
	"github.com/Darkweeb21/Friday/internal/cohere"
	"github.com/Darkweeb21/Friday/internal/config"
	"github.com/Darkweeb21/Friday/internal/display"
	"github.com/Darkweeb21/Friday/internal/groq"
	"github.com/Darkweeb21/Friday/internal/handler"
	"github.com/Darkweeb21/Friday/internal/imagegen"
	"github.com/Darkweeb21/Friday/internal/intent"
	"github.com/Darkweeb21/Friday/internal/orchestrator"
	"github.com/Darkweeb21/Friday/internal/session"
	"github.com/Darkweeb21/Friday/internal/speech"
	"github.com/Darkweeb21/Friday/internal/websearch"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("Configuration loaded successfully")
	log.Printf("Server will listen on port: %s", config.AppConfig.Port)

	store, err := display.NewStore(config.AppConfig.FilesPath)
	if err != nil {
		log.Fatalf("Failed to prepare display files: %v", err)
	}

	// Provider clients
	decisionClient := cohere.NewClient()
	llmClient := groq.NewClient()
	searcher := websearch.NewGoogleSearcher()

	// Answer engines over the shared transcript
	history := session.NewHistory(config.AppConfig.TranscriptPath())
	chatbot := chat.NewChatbot(llmClient, config.AppConfig.Username, config.AppConfig.AssistantName, config.AppConfig.HistoryContextSize)
	realtime := chat.NewRealtimeEngine(llmClient, searcher, config.AppConfig.Username, config.AppConfig.AssistantName, config.AppConfig.HistoryContextSize)

	// Automation collaborators
	dispatcher := automation.NewDispatcher(
		automation.ExecLauncher{},
		automation.ExecOpener{},
		automation.ExecMediaKeys{},
		searcher,
		llmClient,
		config.AppConfig.DataPath,
		config.AppConfig.Username,
	)

	// Out-of-process image generator, spawned next to this binary
	workerPath := imageWorkerPath()
	images := imagegen.NewRequester(config.AppConfig.ImageRecordPath(), workerPath)

	// Speech input and output
	recognizer := speech.NewChannelRecognizer()
	var speaker speech.Speaker = speech.NullSpeaker{}
	if config.AppConfig.TTSBaseURL != "" {
		speaker = speech.NewHTTPSpeaker()
	}

	orch := orchestrator.New(orchestrator.Options{
		Classifier:    intent.NewClassifier(decisionClient, config.AppConfig.ClassifierMaxAttempts),
		Dispatcher:    dispatcher,
		Chatbot:       chatbot,
		Realtime:      realtime,
		Recognizer:    recognizer,
		Speaker:       speaker,
		Images:        images,
		Display:       store,
		History:       history,
		Username:      config.AppConfig.Username,
		AssistantName: config.AppConfig.AssistantName,
		MicPoll:       config.AppConfig.MicPollInterval,
	})

	if err := orch.Startup(); err != nil {
		log.Fatalf("Startup failed: %v", err)
	}

	go func() {
		if err := orch.Run(context.Background()); err != nil {
			log.Printf("Orchestrator stopped: %v", err)
		}
	}()

	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	h := handler.NewHandler(store, recognizer)
	h.Register(r)

	addr := ":" + config.AppConfig.Port
	log.Printf("Starting %s assistant server on %s", config.AppConfig.AssistantName, addr)
	if err := r.Run(addr); err != nil {
		images.TerminateAll()
		log.Fatalf("Failed to start server: %v", err)
	}
}

// imageWorkerPath locates the imagegen binary next to the server binary,
// falling back to PATH lookup.
func imageWorkerPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "imagegen"
	}
	sibling := filepath.Join(filepath.Dir(exe), "imagegen")
	if _, err := os.Stat(sibling); err == nil {
		return sibling
	}
	return "imagegen"
}
