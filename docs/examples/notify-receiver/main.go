// Folio Notification Receiver Example
//
// A minimal receiver that verifies and prints owner notifications sent by
// the Folio contact API when a new message is stored.
//
// Usage:
//   export FOLIO_NOTIFY_SECRET="the value of NOTIFY_WEBHOOK_SECRET"
//   go run main.go
//
// Then set NOTIFY_WEBHOOK_URL=http://your-server:9000/notify on the API.

package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"
)

// ContactCreated is the notification payload.
type ContactCreated struct {
	Event     string    `json:"event"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

const replayWindow = 5 * time.Minute

func main() {
	secret := os.Getenv("FOLIO_NOTIFY_SECRET")
	if secret == "" {
		log.Fatal("FOLIO_NOTIFY_SECRET environment variable is required")
	}

	http.HandleFunc("/notify", notifyHandler(secret))
	http.HandleFunc("/health", healthHandler)

	log.Println("Starting notification receiver on :9000")
	log.Println("Endpoint: http://localhost:9000/notify")
	log.Fatal(http.ListenAndServe(":9000", nil))
}

func notifyHandler(secret string) http.HandlerFunc {
	// Retries reuse the delivery id; remember recent ones to skip duplicates.
	var mu sync.Mutex
	seen := make(map[string]time.Time)

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			log.Printf("Error reading body: %v", err)
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		signature := r.Header.Get("X-Folio-Signature")
		timestamp := r.Header.Get("X-Folio-Timestamp")
		if signature == "" || timestamp == "" {
			log.Println("Missing X-Folio-Signature or X-Folio-Timestamp header")
			http.Error(w, "Missing signature", http.StatusUnauthorized)
			return
		}

		if !verifySignature(signature, timestamp, body, secret) {
			log.Println("Invalid signature")
			http.Error(w, "Invalid signature", http.StatusUnauthorized)
			return
		}

		deliveryID := r.Header.Get("X-Folio-Delivery-Id")
		mu.Lock()
		_, dup := seen[deliveryID]
		seen[deliveryID] = time.Now()
		for id, at := range seen {
			if time.Since(at) > replayWindow {
				delete(seen, id)
			}
		}
		mu.Unlock()
		if dup {
			w.WriteHeader(http.StatusOK)
			return
		}

		var event ContactCreated
		if err := json.Unmarshal(body, &event); err != nil {
			log.Printf("Error parsing JSON: %v", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		log.Printf("New %s from %s <%s>", event.Event, event.Name, event.Email)
		log.Printf("  ID:       %s", event.ID)
		log.Printf("  Received: %s", event.CreatedAt.Format(time.RFC1123))
		log.Printf("  Message:  %s", event.Message)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "received"})
	}
}

// verifySignature checks the HMAC-SHA256 hex digest of "{timestamp}.{body}".
func verifySignature(signature, timestamp string, body []byte, secret string) bool {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	if d := time.Since(time.Unix(ts, 0)); d > replayWindow || d < -replayWindow {
		log.Println("Signature timestamp too old or in future")
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + "."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expected))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
