package audit

// RequestContext - неизменяемые данные запроса, которые передаются явно
// в каждый сервисный вызов. Пустой ActorID означает системное действие.
type RequestContext struct {
	RequestID string
	ActorID   string
	IP        string
	UserAgent string
	URL       string
	Method    string
}

// System - контекст фоновых и служебных операций (сиды, CLI)
func System() RequestContext {
	return RequestContext{}
}

// WithActor возвращает копию контекста с другим актором
func (rc RequestContext) WithActor(actorID string) RequestContext {
	rc.ActorID = actorID
	return rc
}

func (rc RequestContext) IsSystem() bool {
	return rc.ActorID == ""
}

// Metadata - данные запроса, которые попадают в запись журнала
func (rc RequestContext) Metadata() map[string]any {
	return map[string]any{
		"ip":         rc.IP,
		"user_agent": rc.UserAgent,
		"url":        rc.URL,
		"method":     rc.Method,
	}
}
