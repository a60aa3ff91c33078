package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskWhatsAppLeadMatch = "whatsapp.lead.match"

type WhatsAppLeadMatchPayload struct {
	OrganizationID string `json:"organizationId"`
	WhatsAppLeadID string `json:"whatsappLeadId"`
}

func NewWhatsAppLeadMatchTask(payload WhatsAppLeadMatchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWhatsAppLeadMatch, data), nil
}

func ParseWhatsAppLeadMatchPayload(task *asynq.Task) (WhatsAppLeadMatchPayload, error) {
	var payload WhatsAppLeadMatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return WhatsAppLeadMatchPayload{}, err
	}
	return payload, nil
}
