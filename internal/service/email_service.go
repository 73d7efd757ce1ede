package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/Diego200509/asotema-sub000/configs"
	"github.com/Diego200509/asotema-sub000/internal/models"
	"github.com/Diego200509/asotema-sub000/internal/repository"
)

// EmailSvc is an implementation of the service.EmailService interface
type EmailSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	config *configs.Config
}

// NewEmailService creates a new EmailSvc
func NewEmailService(deps Dependencies) *EmailSvc {
	return &EmailSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		config: deps.Config,
	}
}

// SendOverdueReminder notifies a member about a past-due installment
func (s *EmailSvc) SendOverdueReminder(ctx context.Context, member *models.Member, loan *models.Loan, installment *models.Installment) error {
	if member.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("Cuota vencida: préstamo #%d", loan.ID)

	body := fmt.Sprintf(`
	<h2>Recordatorio de pago</h2>
	<p>Estimado/a %s %s,</p>

	<p>La cuota %d de su préstamo #%d venció el %s y registra un saldo pendiente.</p>

	<table style="border-collapse: collapse;">
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Valor de la cuota:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Abonado:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Saldo pendiente:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
	</table>

	<p>Por favor acérquese a tesorería para regularizar su pago.</p>
	<p>ASOTEMA</p>`,
		member.FirstName, member.LastName,
		installment.Sequence, loan.ID, installment.DueDate.Format("2006-01-02"),
		installment.ExpectedAmount.StringFixed(2),
		installment.AmountPaid.StringFixed(2),
		installment.RemainingBalance().StringFixed(2),
	)

	return s.send(member.Email, subject, body)
}

// SendPaymentReceipt sends a receipt for a recorded payment
func (s *EmailSvc) SendPaymentReceipt(ctx context.Context, member *models.Member, result *models.PaymentResult) error {
	if member.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("Comprobante de pago: préstamo #%d", result.LoanID)

	body := fmt.Sprintf(`
	<h2>Comprobante de pago</h2>
	<p>Estimado/a %s %s,</p>

	<p>Registramos su pago de %s sobre la cuota %d del préstamo #%d.</p>

	<table style="border-collapse: collapse;">
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Comprobante:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Fecha:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Estado de la cuota:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Estado del préstamo:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
	</table>

	<p>ASOTEMA</p>`,
		member.FirstName, member.LastName,
		result.AmountApplied.StringFixed(2), result.Sequence, result.LoanID,
		result.ReceiptID,
		result.PaidAt.Format("2006-01-02 15:04"),
		result.Status,
		result.LoanStatus,
	)

	return s.send(member.Email, subject, body)
}

func (s *EmailSvc) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.Email.SenderEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		s.config.Email.SMTPHost,
		s.config.Email.SMTPPort,
		s.config.Email.SMTPUser,
		s.config.Email.SMTPPassword,
	)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, subject)

	return nil
}
