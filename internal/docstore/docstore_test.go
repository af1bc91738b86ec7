package docstore

import (
	"testing"
	"time"

	"github.com/folio/folio/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestContactMessage_BSONFieldNames(t *testing.T) {
	msg := model.ContactMessage{
		ID:        "01HX0000000000000000000000",
		Name:      "Ada",
		Email:     "ada@example.com",
		Message:   "hi",
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	raw, err := bson.Marshal(msg)
	if err != nil {
		t.Fatalf("bson.Marshal failed: %v", err)
	}

	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("bson.Unmarshal failed: %v", err)
	}

	for _, key := range []string{"_id", "name", "email", "message", "createdAt"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("expected BSON key %q in %v", key, doc)
		}
	}
	if doc["_id"] != msg.ID {
		t.Errorf("_id = %v, want %s", doc["_id"], msg.ID)
	}
}
