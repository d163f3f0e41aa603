package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

var (
	emailFrom     = os.Getenv("EMAIL_FROM")
	emailPassword = os.Getenv("EMAIL_PASSWORD")
	smtpHost      = os.Getenv("SMTP_HOST")
	smtpPort      = os.Getenv("SMTP_PORT")
	companyName   = "Blassa"
	baseURL       = os.Getenv("BASE_URL")
)

// Common header template for all emails
const emailHeader = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="text-align: center; margin-bottom: 30px; background-color: #f9f9f9; padding: 20px;">
			<h2 style="color: #0E5E56; margin: 0;">Blassa</h2>
		</div>
`

// Common footer template for all emails
const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #666; border-top: 1px solid #eee; padding-top: 20px;">
			<p>Ceci est un message automatique, merci de ne pas y répondre.</p>
			<p>© 2025 Blassa. Tous droits réservés.</p>
		</div>
	</div>
</body>
</html>
`

func sendEmail(to []string, subject, body string) error {
	if emailFrom == "" || emailPassword == "" || smtpHost == "" || smtpPort == "" {
		return fmt.Errorf("email configuration not set")
	}

	// Headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", companyName, emailFrom)
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"
	headers["X-Mailer"] = "Blassa-Mailer"

	// Build message
	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	// Authentication
	auth := smtp.PlainAuth("", emailFrom, emailPassword, smtpHost)

	// Send email
	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, emailFrom, to, []byte(message))
	if err != nil {
		log.Printf("Failed to send email: %v", err)
		return err
	}

	return nil
}

// SendEmailVerificationOTP emails the 4-digit code used to verify a new
// account's address.
func SendEmailVerificationOTP(email, otp string) error {
	subject := "Vérifiez votre adresse email - Blassa"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Vérification de votre email</h1>
					<p>Bonjour,</p>
					<p>Merci de vous être inscrit sur Blassa. Voici votre code de vérification :</p>
					<div style="text-align: center; margin: 30px 0;">
						<span style="font-size: 32px; letter-spacing: 8px; font-weight: bold; color: #0E5E56;">%s</span>
					</div>
					<p>Ce code expire dans 15 minutes.</p>
					<p>À bientôt sur la route,<br>L'équipe Blassa</p>
				</div>`+emailFooter,
		otp)

	return sendEmail([]string{email}, subject, body)
}

// SendPasswordResetOTP emails the code used to reset a forgotten password.
func SendPasswordResetOTP(email, otp string) error {
	subject := "Réinitialisation de votre mot de passe - Blassa"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Réinitialisation du mot de passe</h1>
					<p>Bonjour,</p>
					<p>Vous avez demandé la réinitialisation de votre mot de passe. Voici votre code :</p>
					<div style="text-align: center; margin: 30px 0;">
						<span style="font-size: 32px; letter-spacing: 8px; font-weight: bold; color: #0E5E56;">%s</span>
					</div>
					<p>Ce code expire dans 15 minutes. Si vous n'êtes pas à l'origine de cette demande, ignorez cet email.</p>
					<p>À bientôt sur la route,<br>L'équipe Blassa</p>
				</div>`+emailFooter,
		otp)

	return sendEmail([]string{email}, subject, body)
}

// SendNewPassengerEmail tells a driver a passenger asked to join a ride.
func SendNewPassengerEmail(driverEmail, passengerName, rideLabel string) error {
	subject := "Nouvelle demande de réservation - Blassa"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Nouvelle demande de réservation</h1>
					<p>Bonjour,</p>
					<p><strong>%s</strong> souhaite réserver une place sur votre trajet <strong>%s</strong>.</p>
					<p>Connectez-vous à votre compte Blassa pour accepter ou refuser cette demande.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/login" style="background-color: #0E5E56; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">Se connecter</a>
					</div>
					<p>À bientôt sur la route,<br>L'équipe Blassa</p>
				</div>`+emailFooter,
		passengerName, rideLabel, baseURL)

	return sendEmail([]string{driverEmail}, subject, body)
}

// SendBookingAcceptedEmail tells a passenger the driver confirmed them.
func SendBookingAcceptedEmail(passengerEmail, driverName, rideLabel string) error {
	subject := "Réservation acceptée - Blassa"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Réservation acceptée</h1>
					<p>Bonjour,</p>
					<p>Bonne nouvelle ! <strong>%s</strong> a accepté votre réservation pour le trajet <strong>%s</strong>.</p>
					<p>Retrouvez les détails du trajet et du véhicule dans votre compte Blassa.</p>
					<p>À bientôt sur la route,<br>L'équipe Blassa</p>
				</div>`+emailFooter,
		driverName, rideLabel)

	return sendEmail([]string{passengerEmail}, subject, body)
}

// SendBookingRejectedEmail tells a passenger the driver declined.
func SendBookingRejectedEmail(passengerEmail, rideLabel string) error {
	subject := "Réservation refusée - Blassa"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Réservation refusée</h1>
					<p>Bonjour,</p>
					<p>Votre demande pour le trajet <strong>%s</strong> a été refusée par le conducteur.</p>
					<p>Pas d'inquiétude, d'autres trajets sont disponibles sur Blassa.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/rides" style="background-color: #0E5E56; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">Trouver un autre trajet</a>
					</div>
					<p>À bientôt sur la route,<br>L'équipe Blassa</p>
				</div>`+emailFooter,
		rideLabel, baseURL)

	return sendEmail([]string{passengerEmail}, subject, body)
}
