package cache

import (
	"time"
)

// rolloverHour はTradegateの取引日が始まる時刻（フランクフルト時間）です。
const rolloverHour = 8

// frankfurt はタイムゾーンデータベースが利用できない環境では CET 固定にフォールバックします。
var frankfurt = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		return time.FixedZone("CET", 60*60)
	}
	return loc
}()

// TimeUntilNextRollover は now から次の取引日開始（フランクフルト時間の午前8時）までの期間を返します。
func TimeUntilNextRollover(now time.Time) time.Duration {
	local := now.In(frankfurt)
	next := time.Date(local.Year(), local.Month(), local.Day(), rolloverHour, 0, 0, 0, frankfurt)

	// 今日の午前8時が既に過ぎている場合は翌日の午前8時を使用
	if !local.Before(next) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, rolloverHour, 0, 0, 0, frankfurt)
	}
	return next.Sub(now)
}
