package api

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/openshelf/openshelf/pkg/openlibrary"
	"github.com/openshelf/openshelf/pkg/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The REST endpoints are open to any origin; the live session
	// follows the same policy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// liveMessage is one client-to-server message on a live session.
// Action is "update" (debounced), "submit" (immediate) or "load_more";
// update and submit carry the full parameter set.
type liveMessage struct {
	Action string         `json:"action"`
	Params *ParamsPayload `json:"params,omitempty"`
}

// HandleLiveSession runs one search session over a WebSocket
// connection. The controller's debounce and cancellation semantics run
// server-side: rapid "update" messages collapse into one provider
// fetch, and every published snapshot is pushed to the client.
func (s *Server) HandleLiveSession(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("websocket upgrade failed: %v", err)
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Debugf("closing websocket: %v", err)
		}
	}()

	controller := session.New(s.client, s.sessionOpts)
	defer controller.Close()

	subID, snapshots := controller.Subscribe()
	defer controller.Unsubscribe(subID)

	// Writer: push every published snapshot until the subscription or
	// the connection dies.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for snap := range snapshots {
			if err := conn.WriteJSON(s.snapshotPayload(snap)); err != nil {
				logger.Debugf("live session write: %v", err)
				return
			}
		}
	}()

	for {
		var msg liveMessage
		if err := conn.ReadJSON(&msg); err != nil {
			logger.Debugf("live session read: %v", err)
			break
		}

		switch msg.Action {
		case "update":
			controller.UpdateParams(paramsFromPayload(msg.Params))
		case "submit":
			if msg.Params != nil {
				controller.UpdateParams(paramsFromPayload(msg.Params))
			}
			controller.Submit()
		case "load_more":
			controller.LoadMore()
		default:
			logger.Debugf("live session: unknown action %q", msg.Action)
		}
	}

	controller.Unsubscribe(subID)
	<-done
}

func paramsFromPayload(p *ParamsPayload) session.Params {
	if p == nil {
		return session.Params{}
	}
	return session.Params{
		Mode:      openlibrary.ParseMode(p.Mode),
		Query:     p.Query,
		Subject:   p.Subject,
		Language:  p.Lang,
		EbookOnly: p.Ebook,
		YearMin:   p.YearMin,
		YearMax:   p.YearMax,
		Sort:      session.ParseSortKey(p.Sort),
		Page:      p.Page,
		PageSize:  p.Limit,
	}
}

func (s *Server) snapshotPayload(snap session.Snapshot) SnapshotPayload {
	return SnapshotPayload{
		Books:     s.bookResponses(snap.Books),
		NumFound:  snap.NumFound,
		Facets:    snap.Facets,
		Loading:   snap.Loading,
		Error:     snap.Err,
		NoResults: snap.NoResults(),
		HasMore:   snap.HasMore(),
		Page:      snap.Params.Page,
	}
}
