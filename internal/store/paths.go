package store

import "fmt"

// Path layout mirrors what the mobile clients already use, so the service
// can run against an existing database without migration.

func UserPath(userID string) string {
	return fmt.Sprintf("users/%s", userID)
}

func ReviewPath(userID, reviewID string) string {
	return fmt.Sprintf("users/%s/reviews/%s", userID, reviewID)
}

func ReviewsPath(userID string) string {
	return fmt.Sprintf("users/%s/reviews", userID)
}

func JobPath(jobID string) string {
	return fmt.Sprintf("Jobs/%s", jobID)
}

// JobsRoot is the parent path of every job posting.
const JobsRoot = "Jobs"

// UsersRoot is the parent path of every worker profile.
const UsersRoot = "users"

func JobsPostedPath(userID, jobID string) string {
	return fmt.Sprintf("users/%s/JobsPosted/%s", userID, jobID)
}

func AcceptedJobPath(userID, jobID string) string {
	return fmt.Sprintf("users/%s/acceptedJobs/%s", userID, jobID)
}

func NotificationPath(userID, jobID string) string {
	return fmt.Sprintf("users/%s/notifications/%s", userID, jobID)
}
