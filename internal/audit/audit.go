// Package audit enregistre les événements de sécurité (inscription, connexion,
// paiement) sans bloquer la requête.
package audit

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Actions d'audit
const (
	ActionRegister     = "auth.register"
	ActionLoginSuccess = "auth.login_success"
	ActionLoginFailed  = "auth.login_failed"
	ActionLogout       = "auth.logout"
	ActionCheckout     = "checkout.preference"
)

const writeTimeout = 5 * time.Second

type Entry struct {
	UserID    string
	UserEmail string
	Action    string
	IPAddress string
	UserAgent string
	Success   bool
	ErrorMsg  string
	Timestamp time.Time
}

type Sink interface {
	Write(ctx context.Context, e Entry) error
}

// Logger écrit les entrées en arrière-plan. Un *Logger nil ignore tout.
type Logger struct {
	sink Sink
	wg   sync.WaitGroup
}

func NewLogger(sink Sink) *Logger {
	return &Logger{sink: sink}
}

// Record capture la requête tout de suite : le gin.Context ne doit pas être
// lu après la fin du handler.
func (l *Logger) Record(c *gin.Context, action, email string, success bool, errMsg string) {
	if l == nil {
		return
	}
	userID := c.GetString("user_id")
	if email == "" {
		email = c.GetString("email")
	}
	l.Write(Entry{
		UserID:    userID,
		UserEmail: email,
		Action:    action,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		Success:   success,
		ErrorMsg:  errMsg,
		Timestamp: time.Now().UTC(),
	})
}

func (l *Logger) Write(e Entry) {
	if l == nil {
		return
	}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := l.sink.Write(ctx, e); err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
		}
	}()
}

// Wait attend la fin des écritures en cours.
func (l *Logger) Wait() {
	if l == nil {
		return
	}
	l.wg.Wait()
}

// LogSink écrit dans le logger standard, utilisé quand Scylla n'est pas configuré.
type LogSink struct{}

func (LogSink) Write(_ context.Context, e Entry) error {
	status := "✅"
	if !e.Success {
		status = "⚠️"
	}
	log.Printf("%s audit %s user=%s email=%s ip=%s %s", status, e.Action, e.UserID, e.UserEmail, e.IPAddress, e.ErrorMsg)
	return nil
}
