package apimodels

const (
	// EventUpdateLocations is sent by a client to publish a route snapshot.
	EventUpdateLocations = "updateLocations"
	// EventLocationsUpdated is sent to every connected client, including
	// the publisher, when a snapshot is published.
	EventLocationsUpdated = "locationsUpdated"
)

// RouteSnapshot is the ephemeral route state shared over the websocket. It
// carries no persistence guarantee and is unrelated to whether the same
// route was saved over HTTP.
type RouteSnapshot struct {
	Source            string     `json:"source"`
	SourceCoords      [2]float64 `json:"sourceCoords"`
	Destination       string     `json:"destination"`
	DestinationCoords [2]float64 `json:"destinationCoords"`
	Distance          string     `json:"distance,omitempty"`
}

// RouteEvent is the only websocket message shape. The event tag leaves room
// for further message types without breaking existing subscribers.
type RouteEvent struct {
	Event string        `json:"event"`
	Data  RouteSnapshot `json:"data"`
}
