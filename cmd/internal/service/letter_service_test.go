package service

import (
	"testing"
	"twoclouds/cmd/internal/domain/entity"
	"twoclouds/cmd/internal/utils/apierror"
)

func newLetterTestEnv() *DefaultLetterService {
	users := &fakeUserRepo{users: []*entity.User{
		{ID: 1, SubUUID: brettSub, Username: "Brett", Email: "brett@example.com"},
		{ID: 2, SubUUID: camiSub, Username: "Cami", Email: "cami@example.com"},
	}}
	return NewLetterService(&fakeLetterRepo{}, users, newTestValidator())
}

func sendLetter(t *testing.T, svc *DefaultLetterService) *LetterResponse {
	t.Helper()
	letter, apierr := svc.SendLetter(&LetterRequest{
		RecipientEmail: "cami@example.com",
		Subject:        "a little something",
		Content:        "open me when you land",
	}, brettSub)
	if apierr != nil {
		t.Fatalf("SendLetter failed: %v", apierr)
	}
	return letter
}

func TestSendLetterStartsUnopened(t *testing.T) {
	svc := newLetterTestEnv()

	letter := sendLetter(t, svc)
	if letter.OpenedAt != nil {
		t.Error("fresh letter already opened")
	}
	if letter.SenderID != 1 || letter.RecipientID != 2 {
		t.Errorf("participants = %d -> %d, want 1 -> 2", letter.SenderID, letter.RecipientID)
	}
}

func TestSendLetterUnknownRecipient(t *testing.T) {
	svc := newLetterTestEnv()

	_, apierr := svc.SendLetter(&LetterRequest{
		RecipientEmail: "stranger@example.com",
		Subject:        "hi",
		Content:        "hello",
	}, brettSub)
	if apierr == nil || apierr.Kind() != apierror.KindNotFound {
		t.Fatalf("got %v, want not_found", apierr)
	}
}

func TestOpenLetterRecipientOnly(t *testing.T) {
	svc := newLetterTestEnv()
	letter := sendLetter(t, svc)

	if _, apierr := svc.OpenLetter(letter.ID, brettSub); apierr == nil || apierr.Kind() != apierror.KindForbidden {
		t.Fatalf("sender open got %v, want forbidden", apierr)
	}

	opened, apierr := svc.OpenLetter(letter.ID, camiSub)
	if apierr != nil {
		t.Fatalf("open failed: %v", apierr)
	}
	if opened.OpenedAt == nil {
		t.Fatal("open did not stamp the letter")
	}

	// Opening again keeps the original stamp.
	again, apierr := svc.OpenLetter(letter.ID, camiSub)
	if apierr != nil {
		t.Fatalf("re-open failed: %v", apierr)
	}
	if again.OpenedAt == nil || *again.OpenedAt != *opened.OpenedAt {
		t.Errorf("re-open changed stamp from %v to %v", *opened.OpenedAt, again.OpenedAt)
	}
}

func TestUnreadCountTracksRecipient(t *testing.T) {
	svc := newLetterTestEnv()
	first := sendLetter(t, svc)
	sendLetter(t, svc)

	count, apierr := svc.UnreadCount(camiSub)
	if apierr != nil {
		t.Fatalf("unread count failed: %v", apierr)
	}
	if count.Unread != 2 {
		t.Errorf("unread = %d, want 2", count.Unread)
	}

	// The sender has no unread letters; sent mail does not count.
	senderCount, _ := svc.UnreadCount(brettSub)
	if senderCount.Unread != 0 {
		t.Errorf("sender unread = %d, want 0", senderCount.Unread)
	}

	if _, apierr := svc.OpenLetter(first.ID, camiSub); apierr != nil {
		t.Fatalf("open failed: %v", apierr)
	}
	count, _ = svc.UnreadCount(camiSub)
	if count.Unread != 1 {
		t.Errorf("unread after open = %d, want 1", count.Unread)
	}
}
