package dialog

// IntentKind enumerates what the presentation layer should render next.
type IntentKind string

const (
	// IntentShowGreeting greets the user and prompts for the first codeword.
	IntentShowGreeting IntentKind = "show_greeting"
	// IntentPromptSecondCodeword asks for the second codeword.
	IntentPromptSecondCodeword IntentKind = "prompt_second_codeword"
	IntentShowMainMenu         IntentKind = "show_main_menu"
	IntentShowDeviceMenu       IntentKind = "show_device_menu"
	IntentShowServerMenu       IntentKind = "show_server_menu"
	IntentShowCountryMenu      IntentKind = "show_country_menu"
	// IntentShowDeviceInstructions renders setup steps for Device together
	// with the resolve menu. Connection material is resolved by the
	// presentation layer from provisioning config, never carried here.
	IntentShowDeviceInstructions IntentKind = "show_device_instructions"
	// IntentShowCountryAdvice renders the server/country branch copy plus the
	// resolve menu. RegionalWarning selects the blocked-route warning text.
	IntentShowCountryAdvice        IntentKind = "show_country_advice"
	IntentPromptProblemDescription IntentKind = "prompt_problem_description"
	// IntentAckTicket confirms ticket issuance, shows the code, and prompts
	// for a rating.
	IntentAckTicket               IntentKind = "ack_ticket"
	IntentPromptRating            IntentKind = "prompt_rating"
	IntentPromptLowRatingFeedback IntentKind = "prompt_low_rating_feedback"
	IntentAckFeedback             IntentKind = "ack_feedback"
	IntentFarewell                IntentKind = "farewell"
	IntentPromptIdea              IntentKind = "prompt_idea"
	IntentAckIdea                 IntentKind = "ack_idea"
	// IntentShowInfo renders a static informational topic; state unchanged.
	IntentShowInfo      IntentKind = "show_info"
	IntentShowAdminMenu IntentKind = "show_admin_menu"
	// IntentInvalidChoice asks the user to pick a valid option; the session
	// is left untouched.
	IntentInvalidChoice IntentKind = "invalid_choice"
	IntentAccessDenied  IntentKind = "access_denied"
)

// Intent describes what to present next. It carries data, not copy; the
// human-language text lives in the presentation layer.
type Intent struct {
	Kind            IntentKind `json:"kind"`
	Device          string     `json:"device,omitempty"`
	Server          string     `json:"server,omitempty"`
	Country         string     `json:"country,omitempty"`
	RegionalWarning bool       `json:"regional_warning,omitempty"`
	TicketCode      string     `json:"ticket_code,omitempty"`
	Topic           string     `json:"topic,omitempty"`
}
