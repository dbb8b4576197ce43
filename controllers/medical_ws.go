package controller

import (
	"log"

	"github.com/gofiber/websocket/v2"

	"kantodex/worker"
)

// HandleMedicalLiveWS streams medical board changes to a connected
// healer dashboard until the client hangs up.
func HandleMedicalLiveWS(hub *worker.MedicalHub) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		events := hub.Subscribe()
		defer hub.Unsubscribe(events)

		// Reader goroutine: its only job is to notice the close.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := c.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				if err := c.WriteJSON(event); err != nil {
					log.Printf("medical live feed write failed: %v", err)
					return
				}
			case <-done:
				return
			}
		}
	}
}
