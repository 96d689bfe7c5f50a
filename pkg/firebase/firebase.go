package firebase

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase app and its service clients.
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client

	messagingOnce sync.Once
	messagingCli  *messaging.Client
	messagingErr  error
}

// InitFirebase initializes the Firebase application and authentication client
func InitFirebase(ctx context.Context, credentialsPath string) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("Firebase credentials path not provided")
	}

	// Check if the credentials file exists
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("Firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	firebaseApp, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	log.Println("Firebase app and auth client initialized successfully!")
	return &App{FirebaseApp: firebaseApp, AuthClient: authClient}, nil
}

// Messaging returns the FCM client, constructing it on first use. The
// client is shared across invocations and safe for concurrent use; the
// once guard keeps initialization race-free.
func (a *App) Messaging(ctx context.Context) (*messaging.Client, error) {
	a.messagingOnce.Do(func() {
		a.messagingCli, a.messagingErr = a.FirebaseApp.Messaging(ctx)
	})
	if a.messagingErr != nil {
		return nil, fmt.Errorf("error getting firebase messaging client: %w", a.messagingErr)
	}
	return a.messagingCli, nil
}
