// Package archetype defines the fixed catalog of interview station archetypes:
// each one's answer step ladder, human markers, common traps, and the
// skill-weight table the adaptive selector consumes.
package archetype

import "github.com/mmiprep/trainer/internal/skill"

// Step is one rung of an archetype's answer ladder.
type Step struct {
	ID         string
	Prompt     string
	CoachFocus string // what a coach should evaluate in the user's answer
}

// Archetype describes one category of practice question.
type Archetype struct {
	Key          string
	Name         string
	Goal         string
	Steps        []Step
	HumanMarkers []string
	CommonTraps  []string
	SkillWeights map[skill.Name]float64
}

// Catalog is an immutable set of archetypes keyed by archetype key.
type Catalog struct {
	archetypes map[string]Archetype
	keys       []string
}

// NewCatalog builds a Catalog from the given archetypes, preserving order.
func NewCatalog(archetypes []Archetype) Catalog {
	byKey := make(map[string]Archetype, len(archetypes))
	keys := make([]string, 0, len(archetypes))
	for _, a := range archetypes {
		byKey[a.Key] = a
		keys = append(keys, a.Key)
	}
	return Catalog{archetypes: byKey, keys: keys}
}

// Get returns the archetype for a key.
func (c Catalog) Get(key string) (Archetype, bool) {
	a, ok := c.archetypes[key]
	return a, ok
}

// Keys returns all archetype keys in catalog order.
func (c Catalog) Keys() []string {
	return append([]string(nil), c.keys...)
}

// KeysForSkill returns the keys of archetypes whose weight for the given
// skill meets the threshold, in catalog order.
func (c Catalog) KeysForSkill(name skill.Name, threshold float64) []string {
	var keys []string
	for _, key := range c.keys {
		if c.archetypes[key].SkillWeights[name] >= threshold {
			keys = append(keys, key)
		}
	}
	return keys
}

// StepByID returns a step of an archetype by its ID, or nil when either the
// archetype or the step does not exist.
func (c Catalog) StepByID(archetypeKey, stepID string) *Step {
	a, ok := c.archetypes[archetypeKey]
	if !ok {
		return nil
	}
	for _, s := range a.Steps {
		if s.ID == stepID {
			return &s
		}
	}
	return nil
}

// Default returns the built-in station archetype catalog.
func Default() Catalog {
	return NewCatalog([]Archetype{
		{
			Key:  "ethical_dilemma",
			Name: "Ethical Dilemma / Professionalism",
			Goal: "Balanced reasoning + defensible action + empathy.",
			Steps: []Step{
				{ID: "tension", Prompt: "What's the core tension? What values or principles are in conflict here?",
					CoachFocus: "Identifies >=2 competing values (e.g. autonomy vs beneficence, honesty vs loyalty)"},
				{ID: "facts", Prompt: "What facts do you need, and what assumptions are you making?",
					CoachFocus: "Distinguishes known facts from assumptions; identifies >=1 key unknown"},
				{ID: "stakeholders", Prompt: "Who are the stakeholders? What might each one feel or need, including you?",
					CoachFocus: "Names >=3 stakeholders with emotions/needs; includes self"},
				{ID: "options", Prompt: "What are 2-3 realistic options? What are the pros and cons of each?",
					CoachFocus: "Gives >=2 options with genuine tradeoffs, not strawmen"},
				{ID: "recommend", Prompt: "What's your recommended action and why?",
					CoachFocus: "Clear recommendation with ethical justification; acknowledges limitations"},
				{ID: "communicate", Prompt: "How would you communicate this? Think about tone, wording, and de-escalation.",
					CoachFocus: "Shows empathetic communication plan; appropriate language"},
				{ID: "followup", Prompt: "What about escalation, documentation, or follow-up?",
					CoachFocus: "Identifies reporting/documentation needs; shows systems thinking"},
			},
			HumanMarkers: []string{
				"I'd feel torn because...",
				"I can see why they'd feel that way; I'd want to acknowledge that before problem-solving.",
				"I don't have all the facts yet, so I'd first clarify...",
				"The strongest argument against my position is...",
				"Even if I disagree, I'd want to understand their perspective by...",
			},
			CommonTraps: []string{
				"Jumping to a solution without exploring the tension",
				"Ignoring your own emotions or the emotional impact on others",
				"Presenting one option as obviously correct (no real tradeoff)",
				"Forgetting documentation/escalation/follow-up",
				"Being preachy or judgmental instead of balanced",
			},
			SkillWeights: map[skill.Name]float64{
				skill.Structure: 1.0, skill.Empathy: 1.2, skill.Perspective: 1.2,
				skill.Reasoning: 1.3, skill.Actionability: 1.0, skill.Clarity: 0.8,
			},
		},
		{
			Key:  "roleplay",
			Name: "Role-Play / Difficult Conversation",
			Goal: "De-escalation + empathy + collaborative plan.",
			Steps: []Step{
				{ID: "open", Prompt: "Introduce your role and set your intention. (e.g., 'I'm here to help.')",
					CoachFocus: "Warm opening; identifies self; states willingness to help"},
				{ID: "acknowledge", Prompt: "Acknowledge the person's emotion. Name it and validate it.",
					CoachFocus: "Names specific emotion; validates without dismissing"},
				{ID: "clarify", Prompt: "Ask 1-2 targeted questions to understand the situation better.",
					CoachFocus: "Asks open-ended, non-judgmental clarifying questions"},
				{ID: "explain", Prompt: "Explain the situation or options in concise, non-jargony language.",
					CoachFocus: "Clear, accessible explanation; avoids medical/technical jargon"},
				{ID: "collaborate", Prompt: "Ask: 'What matters most to you right now?' Explore shared goals.",
					CoachFocus: "Invites patient/person into decision-making; shows respect for autonomy"},
				{ID: "close", Prompt: "Summarize what you'll do, the next step, and a safety net.",
					CoachFocus: "Clear action plan; follow-up commitment; safety net statement"},
			},
			HumanMarkers: []string{
				"I can hear how frustrating/scary this is.",
				"If I'm understanding you correctly...",
				"Here's what I can do right now, and here's what I'll escalate.",
				"That sounds really difficult. Thank you for sharing that with me.",
				"I want to make sure we're on the same page...",
			},
			CommonTraps: []string{
				"Jumping to problem-solving before acknowledging emotions",
				"Using jargon or being condescending",
				"Being defensive or dismissive of complaints",
				"Not asking what matters to the person",
				"Ending without a clear plan or safety net",
			},
			SkillWeights: map[skill.Name]float64{
				skill.Structure: 0.8, skill.Empathy: 1.5, skill.Perspective: 1.0,
				skill.Reasoning: 0.7, skill.Actionability: 1.0, skill.Clarity: 1.3,
			},
		},
		{
			Key:  "teamwork",
			Name: "Teamwork / Conflict Resolution",
			Goal: "Diagnose team dynamics + take accountable action.",
			Steps: []Step{
				{ID: "goal", Prompt: "What's the team goal, and what's currently failing or at risk?",
					CoachFocus: "Identifies shared objective and specific breakdown"},
				{ID: "role", Prompt: "What's your role and responsibility in this situation?",
					CoachFocus: "Shows ownership without over-stepping; clarifies boundaries"},
				{ID: "feelings", Prompt: "What might each person be experiencing or feeling?",
					CoachFocus: "Shows perspective-taking for >=2 team members"},
				{ID: "options", Prompt: "What are your options? (e.g., private 1:1, reset expectations, redistribute tasks, escalate)",
					CoachFocus: "Generates >=2 concrete options appropriate to the situation"},
				{ID: "approach", Prompt: "Pick your approach. What exact words would you use?",
					CoachFocus: "Specific, respectful language; shows communication skill"},
				{ID: "prevent", Prompt: "How would you prevent this from recurring? (process change)",
					CoachFocus: "Systems thinking; proposes sustainable fix, not just a band-aid"},
			},
			HumanMarkers: []string{
				"I'd want to talk to them privately first before assuming...",
				"My responsibility here is to...",
				"I imagine they might be feeling that way because...",
				"I'd say something like: '...'",
				"To prevent this next time, I'd suggest...",
			},
			CommonTraps: []string{
				"Blaming one person without exploring context",
				"Avoiding the conflict entirely (being too passive)",
				"Jumping to escalation without trying direct conversation first",
				"Not considering others' perspectives",
				"No concrete prevention strategy",
			},
			SkillWeights: map[skill.Name]float64{
				skill.Structure: 1.0, skill.Empathy: 1.2, skill.Perspective: 1.3,
				skill.Reasoning: 0.9, skill.Actionability: 1.2, skill.Clarity: 1.0,
			},
		},
		{
			Key:  "policy",
			Name: "Policy / Public Health / Contemporary Issue",
			Goal: "Structured analysis, tradeoffs, implementation.",
			Steps: []Step{
				{ID: "define", Prompt: "Define the problem and a goal metric. What does 'success' look like?",
					CoachFocus: "Clear problem statement; measurable or meaningful success criterion"},
				{ID: "stakeholders", Prompt: "Who are the stakeholders, and what are the equity impacts?",
					CoachFocus: "Names diverse stakeholders; considers vulnerable/marginalized groups"},
				{ID: "options", Prompt: "Propose 2-3 policy options.",
					CoachFocus: "Distinct, realistic policy options (not strawmen)"},
				{ID: "tradeoffs", Prompt: "Analyze tradeoffs: ethics, feasibility, and unintended consequences.",
					CoachFocus: "Balanced analysis; acknowledges uncertainty and unintended effects"},
				{ID: "recommend", Prompt: "What's your recommendation and why?",
					CoachFocus: "Justified recommendation; shows awareness of limitations"},
				{ID: "implement", Prompt: "How would you implement and evaluate the policy?",
					CoachFocus: "Practical implementation steps; evaluation/feedback mechanism"},
			},
			HumanMarkers: []string{
				"Success here would mean...",
				"The people most affected would be...",
				"An unintended consequence could be...",
				"I'd weigh one side more heavily because...",
				"To evaluate whether it's working, I'd look at...",
			},
			CommonTraps: []string{
				"Taking a rigid ideological stance without nuance",
				"Ignoring equity or vulnerable populations",
				"Proposing unrealistic or vague solutions",
				"Forgetting to evaluate outcomes",
				"Not acknowledging uncertainty",
			},
			SkillWeights: map[skill.Name]float64{
				skill.Structure: 1.3, skill.Empathy: 0.8, skill.Perspective: 1.2,
				skill.Reasoning: 1.3, skill.Actionability: 1.0, skill.Clarity: 1.0,
			},
		},
		{
			Key:  "personal",
			Name: "Personal Motivation / Experience (STARR)",
			Goal: "Authentic story with reflection and growth.",
			Steps: []Step{
				{ID: "pick", Prompt: "Pick an experience (take 10 seconds to think).",
					CoachFocus: "Chooses a relevant, specific experience"},
				{ID: "situation", Prompt: "Describe the Situation and Task. What was at stake?",
					CoachFocus: "Clear context; explains why it mattered"},
				{ID: "action", Prompt: "What Actions did you take? Be specific.",
					CoachFocus: "Concrete actions (not vague 'I helped'); shows initiative"},
				{ID: "result", Prompt: "What was the Result or impact?",
					CoachFocus: "Tangible outcome; honest about both success and challenges"},
				{ID: "reflection", Prompt: "Reflection: What did you learn? What would you do differently?",
					CoachFocus: "Genuine self-awareness; growth mindset; connects to medicine/future"},
			},
			HumanMarkers: []string{
				"This mattered to me because...",
				"What I actually did was...",
				"Looking back, I'd do something differently because...",
				"This taught me that...",
				"I think this connects to medicine because...",
			},
			CommonTraps: []string{
				"Being vague ('I helped people') instead of specific",
				"Hero narrative without acknowledging team or limitations",
				"No genuine reflection (just 'it went great')",
				"Picking an experience that's not relevant",
				"Not connecting the lesson to future growth",
			},
			SkillWeights: map[skill.Name]float64{
				skill.Structure: 1.0, skill.Empathy: 1.0, skill.Perspective: 0.8,
				skill.Reasoning: 0.7, skill.Actionability: 0.8, skill.Clarity: 1.3,
			},
		},
		{
			Key:  "prioritization",
			Name: "Prioritization / Triage / Time-Pressure",
			Goal: "Clear triage logic under constraints.",
			Steps: []Step{
				{ID: "constraints", Prompt: "What are the constraints? (time, resources, rules)",
					CoachFocus: "Identifies key constraints; shows awareness of limits"},
				{ID: "criteria", Prompt: "What triage criteria will you use? (urgency, harm, reversibility)",
					CoachFocus: "Articulates clear prioritization framework"},
				{ID: "order", Prompt: "What order would you address things in, and why?",
					CoachFocus: "Logical ordering justified by criteria; not arbitrary"},
				{ID: "communicate", Prompt: "How would you communicate your plan to stakeholders?",
					CoachFocus: "Clear, calm communication; manages expectations"},
				{ID: "contingency", Prompt: "What contingencies do you have if things change?",
					CoachFocus: "Shows adaptability; backup plan; delegation awareness"},
			},
			HumanMarkers: []string{
				"The most urgent thing is this because...",
				"I'd prioritize based on...",
				"If the situation changes, I'd...",
				"I'd communicate my plan by saying...",
				"The hardest tradeoff here is...",
			},
			CommonTraps: []string{
				"Trying to do everything at once",
				"No clear criteria for prioritization",
				"Ignoring communication with stakeholders",
				"No backup plan",
				"Not justifying the order",
			},
			SkillWeights: map[skill.Name]float64{
				skill.Structure: 1.4, skill.Empathy: 0.7, skill.Perspective: 1.0,
				skill.Reasoning: 1.2, skill.Actionability: 1.3, skill.Clarity: 1.0,
			},
		},
		{
			Key:  "cultural_humility",
			Name: "Cultural Humility / Disagreement with Care Plan",
			Goal: "Respect patient values while ensuring safety.",
			Steps: []Step{
				{ID: "acknowledge", Prompt: "Acknowledge the person's values and avoid making assumptions.",
					CoachFocus: "Shows cultural humility; avoids stereotyping; genuine curiosity"},
				{ID: "explore", Prompt: "Explore their reasons with open questions.",
					CoachFocus: "Asks why respectfully; seeks to understand, not to argue"},
				{ID: "explain", Prompt: "Explain the medical context in plain, respectful language.",
					CoachFocus: "Accessible explanation; no condescension; respects autonomy"},
				{ID: "shared", Prompt: "What shared decision-making options exist?",
					CoachFocus: "Offers choices; involves patient in decision; finds middle ground"},
				{ID: "boundaries", Prompt: "Where are the safety/ethics boundaries?",
					CoachFocus: "Knows when to draw lines (child safety, emergencies); explains why"},
				{ID: "support", Prompt: "What support resources could help? (interpreter, social work, spiritual care)",
					CoachFocus: "Practical resource awareness; shows systems knowledge"},
			},
			HumanMarkers: []string{
				"I wouldn't want to assume; I'd ask about...",
				"I respect that this is important to them because...",
				"In plain terms, the medical concern is...",
				"Could we find a middle ground where...",
				"If safety is at risk, I'd need to...",
				"I'd want to involve someone who can support them.",
			},
			CommonTraps: []string{
				"Stereotyping or making cultural assumptions",
				"Being paternalistic ('doctor knows best')",
				"Ignoring the patient's autonomy",
				"Not knowing when safety overrides autonomy",
				"Forgetting to offer support resources",
			},
			SkillWeights: map[skill.Name]float64{
				skill.Structure: 0.8, skill.Empathy: 1.4, skill.Perspective: 1.3,
				skill.Reasoning: 1.0, skill.Actionability: 1.0, skill.Clarity: 1.1,
			},
		},
		{
			Key:  "consent_capacity",
			Name: "Consent & Capacity",
			Goal: "Ensure informed consent while respecting autonomy.",
			Steps: []Step{
				{ID: "assess", Prompt: "How would you assess this person's capacity to make this decision?",
					CoachFocus: "Knows capacity criteria: understand, retain, weigh, communicate"},
				{ID: "inform", Prompt: "What information does this person need to make an informed decision?",
					CoachFocus: "Covers: diagnosis, options, risks/benefits, alternatives, doing nothing"},
				{ID: "voluntariness", Prompt: "Is this decision free from coercion or undue influence?",
					CoachFocus: "Considers pressure from family, institution, or circumstance"},
				{ID: "respect", Prompt: "If they refuse, how do you respect that while ensuring safety?",
					CoachFocus: "Balances autonomy with duty of care; knows when to escalate"},
				{ID: "document", Prompt: "What would you document and who else needs to know?",
					CoachFocus: "Proper documentation; involves team; follow-up plan"},
			},
			HumanMarkers: []string{
				"I'd want to make sure they understand by asking them to explain back...",
				"Even if I disagree, their right to decide is...",
				"I'd check if anyone is pressuring them by...",
				"I'd document this because...",
			},
			CommonTraps: []string{
				"Assuming lack of capacity based on age, diagnosis, or decision",
				"Not checking understanding (just 'signing the form')",
				"Ignoring coercion from family members",
				"Not knowing when to involve substitute decision-maker",
			},
			SkillWeights: map[skill.Name]float64{
				skill.Structure: 1.1, skill.Empathy: 1.2, skill.Perspective: 1.0,
				skill.Reasoning: 1.3, skill.Actionability: 1.0, skill.Clarity: 1.0,
			},
		},
		{
			Key:  "interprofessional",
			Name: "Interprofessional Collaboration",
			Goal: "Effective teamwork across professional boundaries.",
			Steps: []Step{
				{ID: "situation", Prompt: "What's the situation and why does it require interprofessional input?",
					CoachFocus: "Clear problem identification; recognizes need for collaboration"},
				{ID: "roles", Prompt: "What does each professional bring? What's their expertise?",
					CoachFocus: "Shows respect for other professions' scope and knowledge"},
				{ID: "communicate", Prompt: "How would you communicate, using what format? (e.g., SBAR)",
					CoachFocus: "Uses structured communication; appropriate medium"},
				{ID: "conflict", Prompt: "What if you disagree with another professional's recommendation?",
					CoachFocus: "Respectful disagreement; patient safety focus; escalation awareness"},
				{ID: "plan", Prompt: "What's the shared plan and how do you follow up?",
					CoachFocus: "Clear shared plan; defined responsibilities; follow-up mechanism"},
			},
			HumanMarkers: []string{
				"I'd value their expertise because...",
				"I'd use SBAR to communicate: Situation, Background, Assessment, Recommendation",
				"If we disagreed, I'd say something like...",
				"The patient's interest comes first, so...",
			},
			CommonTraps: []string{
				"Assuming you know best (hierarchy mindset)",
				"Not using structured communication",
				"Ignoring input from nurses, social workers, etc.",
				"No clear follow-up plan",
			},
			SkillWeights: map[skill.Name]float64{
				skill.Structure: 1.1, skill.Empathy: 0.9, skill.Perspective: 1.2,
				skill.Reasoning: 1.0, skill.Actionability: 1.2, skill.Clarity: 1.2,
			},
		},
		{
			Key:  "reflection",
			Name: "Reflection / Self-Awareness",
			Goal: "Honest self-assessment with growth orientation.",
			Steps: []Step{
				{ID: "identify", Prompt: "What's the situation or quality you're being asked to reflect on?",
					CoachFocus: "Understands the reflection prompt; identifies the core theme"},
				{ID: "honest", Prompt: "Be honest: what did you do well and where did you fall short?",
					CoachFocus: "Genuine honesty; avoids humble-bragging or excessive self-criticism"},
				{ID: "impact", Prompt: "What was the impact of your actions on others?",
					CoachFocus: "Shows awareness of effect on others; takes responsibility"},
				{ID: "learn", Prompt: "What did you learn from this experience?",
					CoachFocus: "Specific lesson, not generic; shows genuine insight"},
				{ID: "forward", Prompt: "What will you do differently going forward?",
					CoachFocus: "Concrete, actionable change; growth mindset"},
			},
			HumanMarkers: []string{
				"Honestly, I could have done better at...",
				"The impact on others was...",
				"What I learned is...",
				"Going forward, I'll change my approach by...",
				"I'm still working on...",
			},
			CommonTraps: []string{
				"Humble-bragging instead of genuine reflection",
				"Being too vague ('I learned a lot')",
				"Not acknowledging impact on others",
				"No concrete plan for improvement",
				"Being overly self-critical without showing growth",
			},
			SkillWeights: map[skill.Name]float64{
				skill.Structure: 0.9, skill.Empathy: 1.1, skill.Perspective: 1.0,
				skill.Reasoning: 0.8, skill.Actionability: 1.0, skill.Clarity: 1.2,
			},
		},
	})
}
