// Package model defines the shared data structures persisted in the
// LocalHire document store. JSON tags match the field names the mobile
// clients already write, so documents stay compatible with the app.
package model

// WorkerProfile is a registered service-provider's record under users/{id}.
// AverageRating and ReviewCount are maintained exclusively by the review
// aggregator; profile owners never write them directly.
type WorkerProfile struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	Skills        []string `json:"skills"`
	AverageRating float64  `json:"averageRating"`
	ReviewCount   int      `json:"reviewCount"`
	ProfileImage  string   `json:"profileImage,omitempty"`
}

// Review is a single rating + feedback record under
// users/{workerID}/reviews/{reviewerID_timestamp}. Created once on
// submission, never updated or deleted by this service.
type Review struct {
	ID               string  `json:"id"`
	Rating           float64 `json:"rating"`
	Feedback         string  `json:"feedback"`
	ReviewedBy       string  `json:"reviewedBy"`
	ReviewedByName   string  `json:"reviewedByName"`
	ReviewedUserName string  `json:"reviewedUserName"`
	Timestamp        int64   `json:"timestamp"` // epoch milliseconds
}

// JobPosting is a listing under Jobs/{jobID}.
//
// OpenSlots is a pointer because older documents omit no_of_users entirely;
// an absent value means "no open slots" wherever slots are required.
type JobPosting struct {
	JobID       string      `json:"job_id"`
	JobType     string      `json:"job_type"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Location    string      `json:"location"`
	Address     string      `json:"address,omitempty"`
	Date        string      `json:"date"` // dd/mm/yyyy
	Time        string      `json:"time"`
	Budget      float64     `json:"budget"`
	SalaryRange float64     `json:"salary_range,omitempty"`
	OpenSlots   *int        `json:"no_of_users,omitempty"`
	UsersHired  int         `json:"users_hired"`
	Status      JobStatus   `json:"status"`
	SenderUID   string      `json:"senderUid"`
	CreatedAt   int64       `json:"created_at"` // epoch milliseconds
	Type        PostingType `json:"type"`
}

// Slots returns the number of remaining open positions, treating an
// absent no_of_users as zero.
func (j *JobPosting) Slots() int {
	if j.OpenSlots == nil {
		return 0
	}
	return *j.OpenSlots
}

// Notification is a routing record under users/{id}/notifications/{jobID}.
// Direct-hire notifications carry active accept/reject buttons; open-listing
// application notifications are informational.
type Notification struct {
	JobID     string      `json:"job_id"`
	JobType   string      `json:"job_type"`
	Location  string      `json:"location"`
	Date      string      `json:"date"`
	Type      PostingType `json:"type"`
	From      string      `json:"from"`
	BtnActive bool        `json:"btnActive"`
	CreatedAt int64       `json:"created_at"`
}

// SearchCriteria is the transient filter object supplied by the UI layer.
// Every field is optional; blank or whitespace-only strings and a zero
// Rating mean "criterion absent". Supplied criteria combine with AND
// semantics, all comparisons case-insensitive and whitespace-trimmed.
type SearchCriteria struct {
	Location string
	Skill    string
	Rating   float64
	Date     string
	JobType  string
}
