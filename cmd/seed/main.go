package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/taskquest/config"
	"github.com/oksasatya/taskquest/internal/application"
	"github.com/oksasatya/taskquest/internal/container"
	"github.com/oksasatya/taskquest/internal/router"
	"github.com/oksasatya/taskquest/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	ctx := context.Background()
	cleanup, err := container.Bootstrap(ctx, cfg, logger)
	defer cleanup()
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	svc := router.BuildService()

	user := "demoUser"
	password := "password123"

	if _, err := svc.CreateUser(ctx, user, password); err != nil {
		if !errors.Is(err, application.ErrUsernameTaken) {
			log.Fatalf("failed to seed user: %v", err)
		}
		fmt.Printf("user %s already exists, adding tasks only\n", user)
	} else {
		fmt.Printf("seeded user: username=%s password=%s\n", user, password)
	}

	texts := []string{"Read 20 pages", "Go for a walk", "Drink water"}
	for i, text := range texts {
		task, err := svc.AddTask(ctx, user, text)
		if errors.Is(err, application.ErrDailyCapReached) {
			fmt.Println("daily task cap reached, stopping")
			break
		}
		if err != nil {
			log.Fatalf("failed to add task: %v", err)
		}
		if i == 0 {
			if _, err := svc.UpdateTask(ctx, user, task.ID, true); err != nil {
				log.Fatalf("failed to complete task: %v", err)
			}
		}
		fmt.Printf("task %s: %s\n", task.ID, task.Text)
	}

	if _, err := svc.PostComment(ctx, user, "Hello from the seed script!"); err != nil {
		log.Fatalf("failed to post comment: %v", err)
	}
	fmt.Println("posted welcome comment")
}
