package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pricile448/amcb-sub000/controllers"
	"github.com/pricile448/amcb-sub000/database"
	"github.com/pricile448/amcb-sub000/middleware"
	"github.com/pricile448/amcb-sub000/services"
)

// disabledStorage rejects uploads when no bucket is configured, so the rest
// of the API still serves.
type disabledStorage struct{}

func (disabledStorage) Save(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error) {
	return "", errors.New("document storage is not configured")
}

func main() {
	ctx := context.Background()

	client, err := database.ConnectToMongoDB(ctx)
	if err != nil {
		log.Fatal("MongoDB connection failed: ", err)
	}
	defer database.CloseMongoDBConnection(ctx, client)

	userCollection := database.GetCollection(client, "users")
	chatCollection := database.GetCollection(client, "chats")

	userService := services.UserConstructor(userCollection)
	accountService := services.AccountConstructor(userCollection)
	notificationService := services.NotificationConstructor(userCollection)
	transactionService := services.TransactionConstructor(userCollection)
	beneficiaryService := services.BeneficiaryConstructor(userCollection)
	chatService := services.ChatConstructor(chatCollection)

	codeStore := services.NewMemoryCodeStore()
	stopSweeper := codeStore.StartSweeper(services.SweepInterval)
	defer stopSweeper()

	debugMode := os.Getenv("DEBUG_MODE") == "true"
	verification := services.VerificationConstructor(
		codeStore, services.SMTPMailerFromEnv(), userService, debugMode)

	var storage services.DocumentStorage
	if gcs, err := services.GCSStorageFromEnv(ctx); err != nil {
		log.Println("Document storage disabled:", err)
		storage = disabledStorage{}
	} else {
		storage = gcs
	}

	authController := controllers.AuthConstructor(userService, verification)
	accountController := controllers.AccountConstructor(accountService, userService)
	notificationController := controllers.NotificationConstructor(notificationService)
	transactionController := controllers.TransactionConstructor(transactionService)
	beneficiaryController := controllers.BeneficiaryConstructor(beneficiaryService)
	chatController := controllers.ChatConstructor(chatService)
	kycController := controllers.KYCConstructor(userService, storage)

	server := gin.Default()
	server.Use(cors.New(corsConfig()))

	basepath := server.Group("/api")
	authController.AuthRoutes(basepath)

	protected := server.Group("/api")
	protected.Use(middleware.Authentication)
	accountController.AccountRoutes(protected)
	notificationController.NotificationRoutes(protected)
	transactionController.TransactionRoutes(protected)
	beneficiaryController.BeneficiaryRoutes(protected)
	chatController.ChatRoutes(protected)
	kycController.KYCRoutes(protected)

	port := os.Getenv("PORT")
	if port == "" {
		port = "9090"
	}
	log.Fatal(server.Run(":" + port))
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowOrigins = strings.Split(origins, ",")
	} else {
		cfg.AllowAllOrigins = true
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "token")
	return cfg
}
