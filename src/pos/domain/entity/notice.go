package entity

// NoticeLevel nivel de la notificación que ve el operador
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeDanger  NoticeLevel = "danger"
)

// Notice notificación para la UI (equivalente a un toast)
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

func NewNotice(level NoticeLevel, message string) *Notice {
	return &Notice{Level: level, Message: message}
}

// NoticeFromError convierte cualquier error en una notificación:
// validación → warning, backend → danger con el mensaje del servidor
func NoticeFromError(err error) *Notice {
	if err == nil {
		return nil
	}
	if IsValidation(err) {
		return NewNotice(NoticeWarning, err.Error())
	}
	if remote, ok := AsRemote(err); ok {
		return NewNotice(NoticeDanger, remote.UserMessage())
	}
	return NewNotice(NoticeDanger, GenericRemoteMessage)
}
