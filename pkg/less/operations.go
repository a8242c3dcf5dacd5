// Package less exposes the Less CLI as a set of MCP tools.
//
// Each tool is described by an Operation: its name, description, the fixed
// sub-command tokens passed to the CLI and an ordered parameter list. The
// order of Params is the order their tokens appear on the command line.
package less

// Kind is the declared type of a tool parameter.
type Kind int

const (
	KindString Kind = iota
	KindEnum
	KindStringList
)

func (k Kind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindStringList:
		return "string[]"
	default:
		return "string"
	}
}

// Param describes one tool parameter and how it is rendered.
type Param struct {
	Name        string
	Description string
	Kind        Kind
	Required    bool
	// Enum lists the allowed values of a KindEnum parameter.
	Enum []string
	// Flag precedes the value on the command line. Empty means positional.
	Flag string
	// Quoted marks user-supplied text that is double-quoted when the
	// invocation is rendered as a shell line.
	Quoted bool
}

// Operation is the descriptor of one exposed tool.
type Operation struct {
	Name        string
	Description string
	Command     []string
	Params      []Param
}

var (
	Languages = []string{"js", "ts", "py"}
	HTTPVerbs = []string{"get", "post", "put", "patch", "delete"}
)

func languageParam(description string) Param {
	return Param{
		Name:        "language",
		Description: description,
		Kind:        KindEnum,
		Required:    true,
		Enum:        Languages,
		Flag:        "-l",
		Quoted:      true,
	}
}

func projectNameParam(description string) Param {
	return Param{
		Name:        "project_name",
		Description: description,
		Kind:        KindString,
		Required:    true,
	}
}

const codeLanguage = "Required: The programming language to use for the code."

var operations = []Operation{
	{
		Name:        "list-projects",
		Description: "List all projects.",
		Command:     []string{"list"},
	},
	{
		Name:        "list-project-resources",
		Description: "List resources by project_id.",
		Command:     []string{"list", "resources"},
		Params: []Param{
			{Name: "project_id", Description: "Required: The project ID to list resources for.", Kind: KindString, Required: true},
		},
	},
	{
		Name:        "deploy-project",
		Description: "Deploy your Less project.",
		Command:     []string{"deploy"},
		Params: []Param{
			{Name: "organization", Description: "Optional: Organization ID to deploy the project under.", Kind: KindString, Flag: "--organization"},
			projectNameParam("Required: The name of the project to deploy."),
		},
	},
	{
		Name:        "delete-project",
		Description: "Delete a Less project.",
		Command:     []string{"delete"},
		Params:      []Param{projectNameParam("Required: The name of the project to delete.")},
	},
	{
		Name:        "build-project",
		Description: "Build your Less project locally for offline development.",
		Command:     []string{"build"},
		Params:      []Param{projectNameParam("Required: The name of the project to build.")},
	},
	{
		Name:        "run-project",
		Description: "Run your Less project locally.",
		Command:     []string{"run"},
		Params:      []Param{projectNameParam("Required: The name of the project to run.")},
	},
	{
		Name:        "view-logs",
		Description: "List logs by project.",
		Command:     []string{"log"},
		Params: []Param{
			{Name: "project_name", Description: "Required: The name of the project to view logs for.", Kind: KindString, Required: true, Flag: "--project"},
			{Name: "function_name", Description: "Required: The function to view logs for (e.g., 'apis/demo/hello/get').", Kind: KindString, Required: true, Flag: "--function"},
		},
	},
	{
		Name:        "create-route",
		Description: "Create a new HTTP route for a Less API",
		Command:     []string{"create", "route"},
		Params: []Param{
			{Name: "name", Description: `Required: The name of the API to create the route for. (E.g. "store_api")`, Kind: KindString, Required: true, Flag: "-n", Quoted: true},
			{Name: "path", Description: `Required: The HTTP route path to create. (E.g. "/orders/{order_id}")`, Kind: KindString, Required: true, Flag: "-p", Quoted: true},
			languageParam(codeLanguage),
			{Name: "verb", Description: "Required: The HTTP verb to use for the route.", Kind: KindEnum, Required: true, Enum: HTTPVerbs, Flag: "-v", Quoted: true},
		},
	},
	{
		Name:        "create-socket",
		Description: "Create WebSockets and socket channels",
		Command:     []string{"create", "socket"},
		Params: []Param{
			{Name: "name", Description: `Required: The name of the Web Socket to create or to add channels to. (E.g. "realtime_chat")`, Kind: KindString, Required: true, Flag: "-n", Quoted: true},
			languageParam(codeLanguage),
			{Name: "channels", Description: "Optional: A list of channels to create, allowing clients to send messages to the server.", Kind: KindStringList, Flag: "-c", Quoted: true},
		},
	},
	{
		Name:        "create-topic",
		Description: "Create Topics and Subscribers",
		Command:     []string{"create", "topic"},
		Params: []Param{
			{Name: "name", Description: `Required: The name of the Topic to create or to add Subscribers to. (E.g. "user_created")`, Kind: KindString, Required: true, Flag: "-n", Quoted: true},
			languageParam(codeLanguage),
			{Name: "subscribers", Description: `Required: A list of Subscribers to create for a Topic. (E.g. "send_welcome_email", "send_event_to_webhook_listeners")`, Kind: KindStringList, Required: true, Flag: "-s", Quoted: true},
			{Name: "external_topic", Description: `Optional: The name of the external service to connect to. (E.g. "user_service")`, Kind: KindString, Flag: "-ex", Quoted: true},
		},
	},
	{
		Name:        "create-subscribers",
		Description: "Create Subscribers to Topics",
		Command:     []string{"create", "subscribers"},
		Params: []Param{
			{Name: "names", Description: `Required: A list of Subscribers to create. (E.g. ["send_welcome_email", "send_event_to_webhook_listeners"])`, Kind: KindStringList, Required: true, Flag: "-n", Quoted: true},
			{Name: "topic", Description: `Required: The name of the Topic to create or subscribe to. (E.g. "user_created")`, Kind: KindString, Required: true, Flag: "-t", Quoted: true},
			languageParam("Required: The programming language to use for each subscriber's code."),
			{Name: "external_topic", Description: `Optional: The name of the external service to subscribe to. (E.g. "user_service")`, Kind: KindString, Flag: "-ex", Quoted: true},
		},
	},
	{
		Name:        "create-cron",
		Description: "Create CRON Jobs",
		Command:     []string{"create", "cron"},
		Params: []Param{
			{Name: "name", Description: `Required: The name of the CRON Job to create. (E.g. "generate_report")`, Kind: KindString, Required: true, Flag: "-n", Quoted: true},
			languageParam(codeLanguage),
		},
	},
	{
		Name:        "create-shared-module",
		Description: "Create Shared Code Modules",
		Command:     []string{"create", "shared-module"},
		Params: []Param{
			{Name: "name", Description: `Required: The name of the Module to create. (E.g. "orm_models")`, Kind: KindString, Required: true, Flag: "-n", Quoted: true},
			languageParam(codeLanguage),
		},
	},
	{
		Name:        "create-cloud-function",
		Description: "Create Cloud Functions",
		Command:     []string{"create", "cloud-function"},
		Params: []Param{
			{Name: "name", Description: `Required: The name of the Cloud Function to create. (E.g. "add_numbers")`, Kind: KindString, Required: true, Flag: "-n", Quoted: true},
			languageParam(codeLanguage),
		},
	},
}

// Operations returns the table of every exposed tool, in registration order.
func Operations() []Operation {
	return append([]Operation(nil), operations...)
}

// Lookup finds an operation by tool name.
func Lookup(name string) (Operation, bool) {
	for _, op := range operations {
		if op.Name == name {
			return op, true
		}
	}
	return Operation{}, false
}
