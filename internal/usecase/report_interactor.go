package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GoArmGo/PetFinder/internal/core/ports"
	"github.com/GoArmGo/PetFinder/internal/domain"
	"github.com/GoArmGo/PetFinder/internal/messaging/payloads"
)

const sightingSubject = "Petfinder: han visto a tu mascota!"

type reportUseCase struct {
	reports   ports.ReportStorage
	pets      ports.PetStorage
	users     ports.UserStorage
	publisher ports.SightingPublisher
	notifier  ports.EmailNotifier
	logger    *slog.Logger
}

// NewReportUseCase создает ReportUseCase. notifier нужен только воркеру, publisher только серверу.
func NewReportUseCase(
	reports ports.ReportStorage,
	pets ports.PetStorage,
	users ports.UserStorage,
	publisher ports.SightingPublisher,
	notifier ports.EmailNotifier,
	logger *slog.Logger,
) ReportUseCase {
	return &reportUseCase{
		reports:   reports,
		pets:      pets,
		users:     users,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
	}
}

func (uc *reportUseCase) ReportPet(ctx context.Context, petID int64, in ReportInput) (*domain.Report, error) {
	report := &domain.Report{
		PetID:       petID,
		ReportName:  strings.TrimSpace(in.ReportName),
		ReportPhone: strings.TrimSpace(in.ReportPhone),
		ReportAbout: strings.TrimSpace(in.ReportAbout),
	}
	if report.ReportName == "" {
		return nil, &domain.ValidationError{Field: "reportName", Reason: "required"}
	}
	if report.ReportPhone == "" {
		return nil, &domain.ValidationError{Field: "reportPhone", Reason: "required"}
	}

	if _, err := uc.pets.GetPetByID(ctx, petID); err != nil {
		return nil, fmt.Errorf("usecase: pet %d: %w", petID, err)
	}

	if err := uc.reports.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("usecase: create report for pet %d: %w", petID, err)
	}

	uc.logger.Info("report created", "report_id", report.ID, "pet_id", petID)
	return report, nil
}

func (uc *reportUseCase) NotifyOwner(ctx context.Context, reportID int64) error {
	report, err := uc.reports.GetReportByID(ctx, reportID)
	if err != nil {
		return fmt.Errorf("usecase: report %d: %w", reportID, err)
	}
	pet, err := uc.pets.GetPetByID(ctx, report.PetID)
	if err != nil {
		return fmt.Errorf("usecase: pet %d: %w", report.PetID, err)
	}
	owner, err := uc.users.GetUserByID(ctx, pet.UserID)
	if err != nil {
		return fmt.Errorf("usecase: owner %d: %w", pet.UserID, err)
	}

	email := composeSightingEmail(owner.Email, report)
	n := payloads.SightingNotification{
		ReportID: report.ID,
		PetID:    pet.ID,
		To:       email.To,
		Subject:  email.Subject,
		Body:     email.Body,
	}
	if err := uc.publisher.PublishSightingNotification(ctx, n); err != nil {
		uc.logger.Error("failed to queue sighting notification", "report_id", reportID, "error", err)
		return fmt.Errorf("usecase: queue sighting notification: %w", asUpstream("message queue", err))
	}

	uc.logger.Info("sighting notification queued", "report_id", reportID, "pet_id", pet.ID)
	return nil
}

func (uc *reportUseCase) DeliverSighting(ctx context.Context, n payloads.SightingNotification) error {
	if strings.TrimSpace(n.To) == "" {
		return &domain.ValidationError{Field: "to", Reason: "recipient is empty"}
	}

	err := uc.notifier.Send(ctx, domain.SightingEmail{To: n.To, Subject: n.Subject, Body: n.Body})
	if err != nil {
		return fmt.Errorf("usecase: send sighting email: %w", asUpstream("email", err))
	}

	uc.logger.Info("sighting email sent", "report_id", n.ReportID, "pet_id", n.PetID)
	return nil
}

func composeSightingEmail(to string, r *domain.Report) domain.SightingEmail {
	return domain.SightingEmail{
		To:      to,
		Subject: sightingSubject,
		Body: fmt.Sprintf("Vió a tu mascota: %s\nTeléfono: %s\nInformación sobre tu mascota: %s",
			r.ReportName, r.ReportPhone, r.ReportAbout),
	}
}
