package main

import (
	"context"
	"flag"
	"os"

	"lms/config"
	"lms/database"
	"lms/logger"
	"lms/services"
)

func main() {
	path := flag.String("file", "questions.csv", "CSV file with quiz,text,option_a,option_b,option_c,option_d,correct_option")
	flag.Parse()

	config.LoadConfig()
	if err := logger.Init(config.AppConfig.AppEnv); err != nil {
		panic(err)
	}
	defer logger.Log.Sync()

	if err := database.ConnectDb(config.AppConfig); err != nil {
		logger.Log.Fatal("database connection failed", "error", err)
	}

	file, err := os.Open(*path)
	if err != nil {
		logger.Log.Fatal("failed to open CSV file", "file", *path, "error", err)
	}
	defer file.Close()

	report, err := services.ImportQuestions(context.Background(), database.Database.Db, file)
	if err != nil {
		logger.Log.Fatal("import failed", "error", err)
	}
	for _, msg := range report.Errors {
		logger.Log.Warn("row skipped", "reason", msg)
	}
	logger.Log.Info("import summary", "inserted", report.Inserted, "skipped", report.Skipped)
}
