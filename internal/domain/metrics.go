package domain

// OpsMetrics is the operations dashboard snapshot.
type OpsMetrics struct {
	Airports       int
	Routes         int
	Flights        int
	UpcomingTrips  int
	OpenTickets    int
	NextDepartures []Trip
}
