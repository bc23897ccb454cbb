package draft

// Patch is what a step component sends on every field change. Each non-nil
// section replaces the corresponding draft section as a whole.
type Patch struct {
	Basics       *Basics       `json:"basics,omitempty"`
	Knowledge    *Knowledge    `json:"knowledge,omitempty"`
	Channels     *Channels     `json:"channels,omitempty"`
	Integrations *Integrations `json:"integrations,omitempty"`
	Webhooks     *Webhooks     `json:"webhooks,omitempty"`
	Retention    *Retention    `json:"retention,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return p.Basics == nil && p.Knowledge == nil && p.Channels == nil &&
		p.Integrations == nil && p.Webhooks == nil && p.Retention == nil
}

// Apply returns d with the sections present in p swapped in.
func (p Patch) Apply(d AgentDraft) AgentDraft {
	if p.Basics != nil {
		d.Basics = *p.Basics
	}
	if p.Knowledge != nil {
		k := *p.Knowledge
		k.KnowledgeFiles = nonNil(append([]KnowledgeFile(nil), k.KnowledgeFiles...))
		k.KnowledgeURLs = nonNil(append([]string(nil), k.KnowledgeURLs...))
		k.Functions = nonNil(append([]AgentFunction(nil), k.Functions...))
		d.Knowledge = k
	}
	if p.Channels != nil {
		d.Channels = *p.Channels
	}
	if p.Integrations != nil {
		d.Integrations = *p.Integrations
	}
	if p.Webhooks != nil {
		w := *p.Webhooks
		w.AuthHeaders = nonNil(append([]AuthHeader(nil), w.AuthHeaders...))
		d.Webhooks = w
	}
	if p.Retention != nil {
		d.Retention = *p.Retention
	}
	return d
}
