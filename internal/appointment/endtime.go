package appointment

import (
	"fmt"
	"time"

	"github.com/nobita2041/beauty-salon-cms/internal/model"
)

const (
	clockLayout   = "15:04"
	minutesPerDay = 24 * 60
)

// DeriveEndTime は開始時刻 "HH:MM" に施術時間（分）を加えた終了時刻を返す。
// 24時を超えた場合は時刻のみ折り返し、日付の繰り上がりは扱わない。
func DeriveEndTime(start string, durationMinutes int) (string, error) {
	if !model.ValidClockTime(start) {
		return "", model.NewValidationError("start_time", "HH:MM形式で指定してください")
	}
	if durationMinutes < 0 {
		return "", model.NewValidationError("duration_minutes", "0以上で指定してください")
	}

	t, err := time.Parse(clockLayout, start)
	if err != nil {
		return "", model.NewValidationError("start_time", "HH:MM形式で指定してください")
	}

	// 加算前に1日分へ畳み込み、巨大な施術時間でも桁あふれしないようにする
	total := (t.Hour()*60 + t.Minute() + durationMinutes%minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", total/60, total%60), nil
}
