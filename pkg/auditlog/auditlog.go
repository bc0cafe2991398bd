package auditlog

import (
	"log"

	"github.com/pickt972/stock-wise-fleet-sub000/internal/auditlog"
	"github.com/pickt972/stock-wise-fleet-sub000/pkg/models"
)

type Auditlog struct {
	r *auditlog.AuditLogRepository
}

// Auditable is implemented by every model that leaves an audit trail.
type Auditable interface {
	CreateLogView() models.AuditLog
}

func (a *Auditlog) Log(action string, data interface{}, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action

	err := a.r.PersistLog(auditLog, data)

	if err != nil {
		log.Println("Unable to create AuditLog entry for id ", auditLog.ResourceID)
		return
	}
}

func NewAuditLog(repository *auditlog.AuditLogRepository) *Auditlog {
	a := Auditlog{r: repository}

	return &a
}
