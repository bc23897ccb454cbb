package draft

// ChannelID names a communication surface. The set is closed: Channels has
// exactly one field per constant below.
type ChannelID string

const (
	ChannelCall     ChannelID = "call"
	ChannelWhatsApp ChannelID = "whatsapp"
	ChannelEmail    ChannelID = "email"
	ChannelWidget   ChannelID = "widget"
)

var ChannelIDs = []ChannelID{ChannelCall, ChannelWhatsApp, ChannelEmail, ChannelWidget}

type ChannelConnection struct {
	Enabled           bool   `json:"enabled"`
	SelectedAccountID string `json:"selected_account_id"`
}

type Channels struct {
	Call     ChannelConnection `json:"call"`
	WhatsApp ChannelConnection `json:"whatsapp"`
	Email    ChannelConnection `json:"email"`
	Widget   ChannelConnection `json:"widget"`
}

// Get returns the connection for id and false when id is not a known channel.
func (c Channels) Get(id ChannelID) (ChannelConnection, bool) {
	switch id {
	case ChannelCall:
		return c.Call, true
	case ChannelWhatsApp:
		return c.WhatsApp, true
	case ChannelEmail:
		return c.Email, true
	case ChannelWidget:
		return c.Widget, true
	}
	return ChannelConnection{}, false
}

// With returns a copy with the connection for id replaced. Unknown ids are ignored.
func (c Channels) With(id ChannelID, conn ChannelConnection) Channels {
	switch id {
	case ChannelCall:
		c.Call = conn
	case ChannelWhatsApp:
		c.WhatsApp = conn
	case ChannelEmail:
		c.Email = conn
	case ChannelWidget:
		c.Widget = conn
	}
	return c
}

func (c Channels) Enabled() []ChannelID {
	var out []ChannelID
	for _, id := range ChannelIDs {
		if conn, _ := c.Get(id); conn.Enabled {
			out = append(out, id)
		}
	}
	return out
}

func (c Channels) AnyEnabled() bool {
	return len(c.Enabled()) > 0
}

type IntegrationID string

const (
	IntegrationSlack   IntegrationID = "slack"
	IntegrationTeams   IntegrationID = "teams"
	IntegrationHubSpot IntegrationID = "hubspot"
	IntegrationZendesk IntegrationID = "zendesk"
)

var IntegrationIDs = []IntegrationID{IntegrationSlack, IntegrationTeams, IntegrationHubSpot, IntegrationZendesk}

type Integrations struct {
	Slack   bool `json:"slack"`
	Teams   bool `json:"teams"`
	HubSpot bool `json:"hubspot"`
	Zendesk bool `json:"zendesk"`
}

func (i Integrations) Get(id IntegrationID) (bool, bool) {
	switch id {
	case IntegrationSlack:
		return i.Slack, true
	case IntegrationTeams:
		return i.Teams, true
	case IntegrationHubSpot:
		return i.HubSpot, true
	case IntegrationZendesk:
		return i.Zendesk, true
	}
	return false, false
}

func (i Integrations) Enabled() []IntegrationID {
	var out []IntegrationID
	for _, id := range IntegrationIDs {
		if on, _ := i.Get(id); on {
			out = append(out, id)
		}
	}
	return out
}
