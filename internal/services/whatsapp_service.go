package services

import (
	"errors"

	"paneteria_admin/pkg/whatsapp"
)

// WhatsAppService sends order alerts to customers and to the shop operator.
type WhatsAppService interface {
	SendMessage(phone, message string) error
	SendOperatorMessage(message string) error
}

type whatsappService struct {
	client        *whatsapp.Client
	operatorPhone string
}

func NewWhatsAppService(client *whatsapp.Client, operatorPhone string) WhatsAppService {
	return &whatsappService{client: client, operatorPhone: operatorPhone}
}

func (s *whatsappService) SendMessage(phone, message string) error {
	if s.client == nil {
		return errors.New("whatsapp client not configured")
	}
	return s.client.SendTextMessage(phone, message)
}

func (s *whatsappService) SendOperatorMessage(message string) error {
	if s.operatorPhone == "" {
		return errors.New("operator whatsapp number not configured")
	}
	return s.SendMessage(s.operatorPhone, message)
}
