package settlement

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// StaticClient simulates a settlement service that approves every request.
// It backs development runs without a configured settlement endpoint.
type StaticClient struct{}

// Load approves the movement with a synthetic reference.
func (StaticClient) Load(_ context.Context, req LoadRequest) (json.RawMessage, error) {
	payload := fmt.Sprintf(`{"reference":%q,"status":"approved","amount":%s}`, uuid.NewString(), req.Amount)
	return json.RawMessage(payload), nil
}
