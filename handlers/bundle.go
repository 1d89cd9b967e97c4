package handlers

// HandlerBundle aggregates all handlers for route registration.
type HandlerBundle struct {
	Chat         *ChatHandler
	Notification *NotificationHandler
	Roster       *RosterHandler
	Appointments *AppointmentHandler
	Storage      *StorageHandler
	Records      *RecordsHandler
}
