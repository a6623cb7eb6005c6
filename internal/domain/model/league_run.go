package model

import (
	"github.com/google/uuid"
)

type LeagueRunStatus string

const (
	LeagueRunStatusSuccess LeagueRunStatus = "SUCCESS"
	LeagueRunStatusEmpty   LeagueRunStatus = "EMPTY"   // 順位表の行が0件
	LeagueRunStatusFailed  LeagueRunStatus = "FAILED"  // 移動またはタブの有効化に失敗
	LeagueRunStatusSkipped LeagueRunStatus = "SKIPPED" // leagueNameが空
)

// LeagueRunは1リーグ分の処理状況です。実行後のサマリー表示に使います。
type LeagueRun struct {
	ID         uuid.UUID
	Country    string
	LeagueName string
	Status     LeagueRunStatus
	Rows       int
	Detail     string
}

func NewLeagueRun(d LeagueDescriptor) LeagueRun {
	return LeagueRun{
		ID:         uuid.New(),
		Country:    d.Country,
		LeagueName: d.LeagueName,
	}
}

// Completeは抽出結果の行数から状態を決めます。
func (r LeagueRun) Complete(rows int) LeagueRun {
	r.Rows = rows
	r.Status = LeagueRunStatusSuccess
	if rows == 0 {
		r.Status = LeagueRunStatusEmpty
	}
	return r
}

func (r LeagueRun) Fail(err error) LeagueRun {
	r.Status = LeagueRunStatusFailed
	if err != nil {
		r.Detail = err.Error()
	}
	return r
}

func (r LeagueRun) Skip(reason string) LeagueRun {
	r.Status = LeagueRunStatusSkipped
	r.Detail = reason
	return r
}
