package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/progate-hackathon-strawberry-flavor/REDTRIS-backend/internal/api/handlers"
	"github.com/progate-hackathon-strawberry-flavor/REDTRIS-backend/internal/api/middleware"
	"github.com/progate-hackathon-strawberry-flavor/REDTRIS-backend/internal/database"
	"github.com/progate-hackathon-strawberry-flavor/REDTRIS-backend/internal/services/tetris"
)

func main() {
	// 本番環境では環境変数が直接設定されるため .env が無くてもよい
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("[Main] .envファイルが見つかりません。環境変数を直接使用します")
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	clientOrigin := os.Getenv("CLIENT_ORIGIN")
	if clientOrigin == "" {
		clientOrigin = "http://localhost:3000"
	}

	// DATABASE_URL 未設定ならスコア保存なしで動く
	var store tetris.ScoreStore
	var dbService *database.DatabaseService
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		service, err := database.NewDatabaseService(databaseURL)
		if err != nil {
			log.Printf("[Main] データベース接続に失敗しました。スコア保存なしで起動します: %v", err)
		} else {
			dbService = service
			store = database.NewResultRepository(service.DB)
		}
	} else {
		log.Printf("[Main] DATABASE_URLが未設定です。スコア保存なしで起動します")
	}

	hub := handlers.NewHub()
	manager := tetris.NewGameManager(hub, store)
	hub.AttachManager(manager)
	resultHandler := handlers.NewResultHandler(store)

	router := mux.NewRouter()
	router.HandleFunc("/ws", hub.HandleWebSocket)
	router.HandleFunc("/api/results", resultHandler.GetTopResults).Methods(http.MethodGet)
	router.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	server := &http.Server{
		Addr:    ":" + port,
		Handler: middleware.CORSHandler(clientOrigin)(router),
	}

	go func() {
		log.Printf("[Main] サーバー起動: port=%s origin=%s", port, clientOrigin)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Main] サーバー起動に失敗しました: %v", err)
		}
	}()

	// SIGINT/SIGTERMでグレースフルシャットダウン
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("[Main] シャットダウン開始")

	manager.Shutdown()
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[Main] サーバー停止に失敗しました: %v", err)
	}
	if dbService != nil {
		dbService.Close()
	}
	log.Printf("[Main] シャットダウン完了")
}
