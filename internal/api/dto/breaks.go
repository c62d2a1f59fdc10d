package dto

type BreaksRequest struct {
	DrivingHours *float64 `json:"driving_hours" validate:"required,gte=0,lte=1000"`
}

type BreakScheduleResponse struct {
	ShortBreakCount   int    `json:"short_break_count"`
	DailyRestCount    int    `json:"daily_rest_count"`
	TotalStops        int    `json:"total_stops"`
	TotalBreakMinutes int    `json:"total_break_minutes"`
	Description       string `json:"description"`
}
