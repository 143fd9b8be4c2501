package email

// SubjectLeadAlert is the subject line for new-lead owner alerts.
const SubjectLeadAlert = "[NovaEstudioWeb] Nuevo posible cliente"
