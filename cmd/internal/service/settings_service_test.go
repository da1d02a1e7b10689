package service

import (
	"testing"
	"time"
	"twoclouds/cmd/internal/domain/entity"
	"twoclouds/cmd/internal/utils"
)

func TestGetCountdownDefaultsAWeekOut(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo, newTestValidator())

	countdown, apierr := svc.GetCountdown()
	if apierr != nil {
		t.Fatalf("GetCountdown failed: %v", apierr)
	}
	if repo.settings == nil {
		t.Fatal("default reunion date not persisted")
	}
	if countdown.Days < 6 || countdown.Days > 7 {
		t.Errorf("default countdown = %d days, want about 7", countdown.Days)
	}
}

func TestGetCountdownFloorsAtZero(t *testing.T) {
	past := utils.NowUTC() - time.Hour.Milliseconds()
	repo := &fakeSettingsRepo{settings: &entity.AppSettings{ID: 1, ReunionAt: past}}
	svc := NewSettingsService(repo, newTestValidator())

	countdown, apierr := svc.GetCountdown()
	if apierr != nil {
		t.Fatalf("GetCountdown failed: %v", apierr)
	}
	if countdown.Days != 0 || countdown.Hours != 0 || countdown.Minutes != 0 || countdown.Seconds != 0 {
		t.Errorf("countdown past target = %+v, want all zeros", countdown)
	}
}

func TestGetCountdownSurvivesFailedPersist(t *testing.T) {
	repo := &fakeSettingsRepo{failSave: true}
	svc := NewSettingsService(repo, newTestValidator())

	countdown, apierr := svc.GetCountdown()
	if apierr != nil {
		t.Fatalf("GetCountdown failed: %v", apierr)
	}
	if countdown.Days < 6 || countdown.Days > 7 {
		t.Errorf("countdown = %d days, want about 7", countdown.Days)
	}
}

func TestUpdateReunionDate(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo, newTestValidator())

	target := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	countdown, apierr := svc.UpdateReunionDate(&ReunionRequest{
		ReunionAt: target.Format(time.RFC3339),
	})
	if apierr != nil {
		t.Fatalf("UpdateReunionDate failed: %v", apierr)
	}
	if countdown.TargetAt != target.Format(time.RFC3339) {
		t.Errorf("target = %s, want %s", countdown.TargetAt, target.Format(time.RFC3339))
	}
	if countdown.Days != 1 && countdown.Days != 2 {
		t.Errorf("countdown = %d days, want about 2", countdown.Days)
	}
	if repo.settings == nil || repo.settings.ReunionAt != target.UnixMilli() {
		t.Error("reunion date not persisted")
	}
}

func TestUpdateReunionDateRejectsGarbage(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepo{}, newTestValidator())

	if _, apierr := svc.UpdateReunionDate(&ReunionRequest{ReunionAt: "next tuesday"}); apierr == nil {
		t.Error("malformed date accepted")
	}
}

func TestCountdownSplit(t *testing.T) {
	now := int64(0)
	target := (26*3600 + 3*60 + 5) * int64(1000) // 1d 2h 3m 5s

	c := toCountdownResponse(target, now)
	if c.Days != 1 || c.Hours != 2 || c.Minutes != 3 || c.Seconds != 5 {
		t.Errorf("split = %dd %dh %dm %ds, want 1d 2h 3m 5s", c.Days, c.Hours, c.Minutes, c.Seconds)
	}
}
