package bot

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cast"

	"subastabot/pkg/logger"
	"subastabot/pkg/models"
	"subastabot/pkg/whatsapp"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// fieldStep is one row of the signup transition table: the status that
// accepts the typed value, the status that accepts the yes/no reply, and the
// status the user moves to once the value is confirmed. next == "" means
// confirming this field completes signup.
type fieldStep struct {
	process string
	confirm string
	next    string
	column  string

	yesID    string
	noID     string
	yesTitle string

	prompt   func(u *models.User) string
	invalid  func(u *models.User) string
	confirmQ func(value string) string
	staged   func(u *models.User) string
	validate func(u *models.User, value string) bool
}

func text(s string) func(*models.User) string {
	return func(*models.User) string { return s }
}

func question(format string) func(string) string {
	return func(value string) string { return fmt.Sprintf(format, value) }
}

var signupSteps = []fieldStep{
	{
		process:  models.StatusPendingDocument,
		confirm:  models.StatusPendingDocumentConfirm,
		next:     models.StatusPendingName,
		column:   "document",
		yesID:    btnConfirmDocYes,
		noID:     btnConfirmDocNo,
		yesTitle: msgConfirmYes,
		prompt: func(u *models.User) string {
			return fmt.Sprintf(msgDocumentPrompt, documentTypeName(u.DocumentType))
		},
		invalid: func(u *models.User) string {
			return fmt.Sprintf(msgDocumentInvalid, documentTypeName(u.DocumentType))
		},
		confirmQ: question(msgDocumentConfirm),
		staged:   func(u *models.User) string { return u.Document },
		validate: func(u *models.User, value string) bool {
			return validDocument(value, u.DocumentType)
		},
	},
	{
		process:  models.StatusPendingName,
		confirm:  models.StatusPendingNameConfirm,
		next:     models.StatusPendingEmail,
		column:   "name",
		yesID:    btnConfirmNameYes,
		noID:     btnConfirmNameNo,
		yesTitle: msgConfirmYes,
		prompt:   text(msgNamePrompt),
		invalid:  text(msgNameInvalid),
		confirmQ: question(msgNameConfirm),
		staged:   func(u *models.User) string { return u.Name },
		validate: func(_ *models.User, value string) bool {
			return utf8.RuneCountInString(value) >= 5 && len(strings.Fields(value)) >= 2
		},
	},
	{
		process:  models.StatusPendingEmail,
		confirm:  models.StatusPendingEmailConfirm,
		next:     models.StatusPendingAddress,
		column:   "email",
		yesID:    btnConfirmEmailYes,
		noID:     btnConfirmEmailNo,
		yesTitle: msgConfirmYes,
		prompt:   text(msgEmailPrompt),
		invalid:  text(msgEmailInvalid),
		confirmQ: question(msgEmailConfirm),
		staged:   func(u *models.User) string { return u.Email },
		validate: func(_ *models.User, value string) bool {
			return emailRegex.MatchString(value)
		},
	},
	{
		process:  models.StatusPendingAddress,
		confirm:  models.StatusPendingAddressConfirm,
		next:     models.StatusPendingCity,
		column:   "address",
		yesID:    btnConfirmAddressYes,
		noID:     btnConfirmAddressNo,
		yesTitle: msgConfirmYesFem,
		prompt:   text(msgAddressPrompt),
		invalid:  text(msgAddressInvalid),
		confirmQ: question(msgAddressConfirm),
		staged:   func(u *models.User) string { return u.Address },
		validate: func(_ *models.User, value string) bool {
			return utf8.RuneCountInString(value) >= 5
		},
	},
	{
		process:  models.StatusPendingCity,
		confirm:  models.StatusPendingCityConfirm,
		next:     "",
		column:   "city",
		yesID:    btnConfirmCityYes,
		noID:     btnConfirmCityNo,
		yesTitle: msgConfirmYesFem,
		prompt:   text(msgCityPrompt),
		invalid:  text(msgCityInvalid),
		confirmQ: question(msgCityConfirm),
		staged:   func(u *models.User) string { return u.City },
		validate: func(_ *models.User, value string) bool {
			return utf8.RuneCountInString(value) >= 3
		},
	},
}

func stepByProcess(status string) *fieldStep {
	for i := range signupSteps {
		if signupSteps[i].process == status {
			return &signupSteps[i]
		}
	}
	return nil
}

func stepByConfirm(status string) *fieldStep {
	for i := range signupSteps {
		if signupSteps[i].confirm == status {
			return &signupSteps[i]
		}
	}
	return nil
}

func documentTypeName(code string) string {
	if name, ok := models.DocumentTypes[code]; ok {
		return name
	}
	return "Documento"
}

func validDocument(document, docType string) bool {
	if document == "" {
		return false
	}
	switch docType {
	case "CC":
		return isDigits(document) && len(document) >= 8 && len(document) <= 10
	case "CE":
		return len(document) >= 6 && len(document) <= 12
	case "PPT":
		return isAlnum(document) && len(document) >= 8
	default:
		return len(document) >= 4
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isAlnum(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}

func (b *Bot) processSignup(ctx context.Context, m *whatsapp.InboundMessage, user *models.User, now time.Time) error {
	if !b.Cfg.SignupStart.IsZero() && now.Before(b.Cfg.SignupStart) {
		return b.Msg.SendText(ctx, m.From, fmt.Sprintf(msgSignupNotStarted, b.windowTime(b.Cfg.SignupStart)))
	}
	if !b.Cfg.SignupEnd.IsZero() && now.After(b.Cfg.SignupEnd) {
		return b.Msg.SendText(ctx, m.From, msgSignupEnded)
	}

	if user == nil {
		return b.welcomeNewUser(ctx, m)
	}

	if user.Status == models.StatusPendingTerms {
		return b.processTerms(ctx, m, user, now)
	}

	return b.processSignupStep(ctx, m, user, now)
}

func (b *Bot) welcomeNewUser(ctx context.Context, m *whatsapp.InboundMessage) error {
	ts := cast.ToInt64(m.Timestamp)
	user := &models.User{
		Phone:       m.From,
		Status:      models.StatusPendingTerms,
		CreatedAt:   ts,
		LastMessage: ts,
	}
	if err := b.Stg.User().Create(ctx, user); err != nil {
		return err
	}
	b.Log.Info("new user created", logger.String("phone", m.From))

	if err := b.Msg.SendText(ctx, m.From, fmt.Sprintf(msgWelcome, b.Cfg.PropertyAddress)); err != nil {
		return err
	}

	if b.Cfg.TermsMode == "signed" {
		return b.sendSignedTermsInstructions(ctx, m.From)
	}
	return b.sendTermsGate(ctx, m.From)
}

func (b *Bot) sendTermsGate(ctx context.Context, phone string) error {
	return b.Msg.SendButtons(ctx, phone,
		fmt.Sprintf(msgTermsLink, b.Cfg.TermsDocument),
		[]whatsapp.Button{{ID: btnAcceptTerms, Title: msgTermsAccept}})
}

func (b *Bot) sendSignedTermsInstructions(ctx context.Context, phone string) error {
	link := b.Cfg.TermsDocument
	if !strings.HasPrefix(link, "http") {
		signed, err := b.Files.SignedURL(b.Cfg.TermsDocument, time.Minute)
		if err != nil {
			return err
		}
		link = signed
	}

	if err := b.Msg.SendDocument(ctx, phone, link, msgTermsSigned, msgTermsFilename); err != nil {
		return err
	}
	if err := b.Msg.SendText(ctx, phone, msgTermsSignedSingleDoc); err != nil {
		return err
	}
	return b.Msg.SendText(ctx, phone,
		fmt.Sprintf(msgTermsSignedDeadline, b.windowTime(b.Cfg.SignupEnd)))
}

func (b *Bot) processTerms(ctx context.Context, m *whatsapp.InboundMessage, user *models.User, now time.Time) error {
	if b.Cfg.TermsMode == "signed" {
		return b.processSignedTerms(ctx, m, user)
	}

	if m.ButtonID() == btnAcceptTerms {
		if err := b.Stg.User().UpdateStatus(ctx, m.From, models.StatusAcceptedTerms); err != nil {
			return err
		}
		user.Status = models.StatusAcceptedTerms
		b.Log.Info("user accepted terms", logger.String("phone", m.From))
		return b.processSignupStep(ctx, m, user, now)
	}

	// No retry limit: the gate re-prompts until accepted.
	return b.Msg.SendButtons(ctx, m.From,
		fmt.Sprintf(msgTermsRetry, b.Cfg.TermsDocument),
		[]whatsapp.Button{{ID: btnAcceptTerms, Title: msgTermsAccept}})
}

// processSignedTerms archives a hand-signed terms PDF. The conversation does
// not advance here: the documentation is reviewed out of band and the
// verified flag set by the operator.
func (b *Bot) processSignedTerms(ctx context.Context, m *whatsapp.InboundMessage, user *models.User) error {
	if m.Type == "document" && m.Document != nil && m.Document.MimeType == "application/pdf" {
		content, err := b.Msg.DownloadMedia(ctx, m.Document.ID)
		if err != nil {
			b.Log.Error("failed to download terms document", logger.Error(err), logger.String("phone", m.From))
			return b.Msg.SendText(ctx, m.From, msgMediaFetchFailed)
		}

		path := fmt.Sprintf("terms_documents/%s/%s.pdf", m.From, m.Timestamp)
		err = b.Files.Save(content, path, map[string]string{
			"phone":     m.From,
			"timestamp": m.Timestamp,
		})
		if err != nil {
			b.Log.Error("failed to archive terms document", logger.Error(err), logger.String("phone", m.From))
			return b.Msg.SendText(ctx, m.From, msgDocumentSaveFailed)
		}

		if err := b.Stg.User().AppendTermsDocument(ctx, m.From, path); err != nil {
			return err
		}
		b.Log.Info("terms document archived", logger.String("phone", m.From), logger.String("path", path))
		return b.Msg.SendText(ctx, m.From, msgDocumentReceived)
	}

	if len(user.TermsDocuments) == 0 {
		return b.Msg.SendText(ctx, m.From, msgDocumentOnly)
	}
	return b.Msg.SendText(ctx, m.From, msgDocumentResend)
}

func (b *Bot) processSignupStep(ctx context.Context, m *whatsapp.InboundMessage, user *models.User, now time.Time) error {
	switch user.Status {
	case models.StatusAcceptedTerms, models.StatusPendingDocumentType:
		return b.processDocumentType(ctx, m, user)
	}

	if step := stepByProcess(user.Status); step != nil {
		return b.processField(ctx, m, user, step)
	}
	if step := stepByConfirm(user.Status); step != nil {
		return b.confirmField(ctx, m, user, step, now)
	}

	// Unknown status for an unverified user: restart the field flow at a
	// safe point.
	b.Log.Warning("unexpected signup status", logger.String("phone", m.From), logger.String("status", user.Status))
	return b.processDocumentType(ctx, m, user)
}

func (b *Bot) processDocumentType(ctx context.Context, m *whatsapp.InboundMessage, user *models.User) error {
	if id := m.ButtonID(); id != "" {
		if _, ok := models.DocumentTypes[id]; ok {
			if err := b.Stg.User().SetProfileField(ctx, m.From, "document_type", id, models.StatusPendingDocument); err != nil {
				return err
			}
			user.DocumentType = id
			user.Status = models.StatusPendingDocument
			b.Log.Info("document type selected", logger.String("phone", m.From), logger.String("type", id))
			return b.Msg.SendText(ctx, m.From, fmt.Sprintf(msgDocumentPrompt, documentTypeName(id)))
		}
	}

	var buttons []whatsapp.Button
	var lines []string
	for _, code := range models.DocumentTypeOrder {
		buttons = append(buttons, whatsapp.Button{ID: code, Title: code})
		lines = append(lines, code+": "+models.DocumentTypes[code])
	}

	if err := b.Msg.SendButtons(ctx, m.From,
		fmt.Sprintf(msgDocumentTypePrompt, strings.Join(lines, "\n")), buttons); err != nil {
		return err
	}
	return b.Stg.User().UpdateStatus(ctx, m.From, models.StatusPendingDocumentType)
}

func (b *Bot) processField(ctx context.Context, m *whatsapp.InboundMessage, user *models.User, step *fieldStep) error {
	if m.Type != "text" || m.Text == nil {
		// Wrong message type: repeat the request, do not advance.
		return b.Msg.SendText(ctx, m.From, step.prompt(user))
	}

	value := strings.TrimSpace(m.Text.Body)
	if !step.validate(user, value) {
		return b.Msg.SendText(ctx, m.From, step.invalid(user))
	}

	if err := b.Stg.User().SetProfileField(ctx, m.From, step.column, value, step.confirm); err != nil {
		return err
	}
	user.Status = step.confirm

	return b.Msg.SendButtons(ctx, m.From, step.confirmQ(value), []whatsapp.Button{
		{ID: step.yesID, Title: step.yesTitle},
		{ID: step.noID, Title: msgConfirmNo},
	})
}

func (b *Bot) confirmField(ctx context.Context, m *whatsapp.InboundMessage, user *models.User, step *fieldStep, now time.Time) error {
	switch m.ButtonID() {
	case step.yesID:
		if step.next == "" {
			if err := b.Stg.User().CompleteSignup(ctx, m.From); err != nil {
				return err
			}
			user.Status = models.StatusIdle
			user.Verified = true
			b.Log.Info("user completed signup", logger.String("phone", m.From))
			// The message that confirmed the last field also triggers the
			// first auction interaction.
			return b.processAuction(ctx, m, user, now)
		}

		if err := b.Stg.User().UpdateStatus(ctx, m.From, step.next); err != nil {
			return err
		}
		user.Status = step.next
		next := stepByProcess(step.next)
		return b.Msg.SendText(ctx, m.From, next.prompt(user))

	case step.noID:
		if err := b.Stg.User().UpdateStatus(ctx, m.From, step.process); err != nil {
			return err
		}
		user.Status = step.process
		return b.Msg.SendText(ctx, m.From, step.prompt(user))

	default:
		// Anything that is not the yes/no reply re-asks the same question.
		return b.Msg.SendButtons(ctx, m.From, step.confirmQ(step.staged(user)), []whatsapp.Button{
			{ID: step.yesID, Title: step.yesTitle},
			{ID: step.noID, Title: msgConfirmNo},
		})
	}
}
