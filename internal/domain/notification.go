package domain

// Notification описывает сообщение клиенту. TemplateData подставляется
// конкретным каналом доставки, workflow каналы не различает.
type Notification struct {
	Recipient    string
	Subject      string
	Body         string
	TemplateData map[string]string
}
