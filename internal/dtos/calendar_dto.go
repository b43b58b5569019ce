package dtos

// EventTime is either an all-day date or a timestamp, as in Google Calendar.
type EventTime struct {
	Date     string `json:"date,omitempty" binding:"omitempty,date"`
	DateTime string `json:"dateTime,omitempty" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	TimeZone string `json:"timeZone,omitempty"`
}

func (t EventTime) Empty() bool { return t.Date == "" && t.DateTime == "" }

type EventRequest struct {
	Summary     string    `json:"summary" binding:"required,max=1024"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Start       EventTime `json:"start" binding:"required"`
	End         EventTime `json:"end" binding:"required"`
}

// EventPatchRequest updates an event. Absent fields are left unchanged.
type EventPatchRequest struct {
	Summary     *string    `json:"summary" binding:"omitempty,min=1,max=1024"`
	Location    *string    `json:"location"`
	Description *string    `json:"description"`
	Start       *EventTime `json:"start"`
	End         *EventTime `json:"end"`
}
