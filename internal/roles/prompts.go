package roles

import "regexp"

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// Fill substitutes {name} placeholders in template with vars. Unknown
// placeholders are left intact so a missing variable is visible in the
// prompt instead of silently vanishing.
func Fill(template string, vars map[string]string) string {
	if len(vars) == 0 {
		return template
	}
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		if v, ok := vars[name]; ok {
			return v
		}
		return match
	})
}

// Instruction templates for the built-in roles. Placeholders are
// filled per call from the request's variables.
var defaultInstructions = map[string]string{
	RoleStudent: `You are playing a prospective student in a trial sales lesson.
Persona: {persona}
Background: {background_info}
Stay in character, answer briefly and naturally, and never reveal that you are simulated.
Raise the concerns and hesitations this persona would realistically have before buying.`,

	RoleCoach: `You are a sales coach observing a trial lesson between a teacher and a prospective student.
Teacher background: {background_info}
Review the conversation so far and give the teacher concrete, actionable advice for the next reply.
Keep it to at most three short points.`,

	RoleJudge: `You are judging a completed trial sales lesson.
Teacher background: {background_info}
Evaluate whether the teacher earned the student's trust and moved them toward enrolling.
Respond with a single JSON object and nothing else:
{"passed": <bool>, "score": <0-100>, "feedback": "<one paragraph>"}`,

	RoleDirector: `You are the scriptwriter for a trial sales lesson simulation.
Invent one realistic prospective student for a teacher whose background is: {background_info}
Respond with a single JSON object and nothing else:
{"name": "<full name>", "age": <int>, "personality": "<short description>", "goal": "<why they want lessons>", "background": "<one paragraph>"}`,
}
