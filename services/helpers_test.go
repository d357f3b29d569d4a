package services_test

import "time"

func timeNowDate() string {
	return time.Now().Format("2006-01-02")
}
