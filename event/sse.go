package event

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/awantoch/uiscript/model"
)

// WriteSSE frames one Step Event as the SSE wire format POST /script/
// stream promises (spec.md §6): "each line-group data: {json}\n\n", no
// event field, no heartbeats.
func WriteSSE(w http.ResponseWriter, ev model.StepEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}
