package domain

import (
	"net/url"

	"github.com/google/uuid"
)

// CommandMethod is the action a command requests on its resource.
type CommandMethod string

// Command methods.
const (
	MethodGet       CommandMethod = "get"
	MethodSet       CommandMethod = "set"
	MethodDelete    CommandMethod = "delete"
	MethodObserve   CommandMethod = "observe"
	MethodSubscribe CommandMethod = "subscribe"
	MethodMerge     CommandMethod = "merge"
)

// CommandStatus is the processing outcome carried by a response command.
type CommandStatus string

// Command statuses.
const (
	StatusPending CommandStatus = "pending"
	StatusSuccess CommandStatus = "success"
	StatusFailure CommandStatus = "failure"
)

// Command carries the fields of a command envelope that the addressing
// layer consumes. It is not the full envelope grammar.
type Command struct {
	ID       string
	From     *Node
	To       *Node
	Method   CommandMethod
	URI      *url.URL
	Type     *MediaType
	Resource Document
	Status   CommandStatus
	Reason   string
}

// NewCommand builds a request command with a fresh random ID.
func NewCommand(method CommandMethod, uri *url.URL) *Command {
	return &Command{
		ID:     uuid.NewString(),
		Method: method,
		URI:    uri,
	}
}

// WithFrom returns the command with From set to node.
func (c *Command) WithFrom(node Node) *Command {
	c.From = &node
	return c
}

// WithResource sets the resource and derives Type from it.
func (c *Command) WithResource(doc Document) *Command {
	c.Resource = doc
	if doc != nil {
		mt := doc.MediaType()
		c.Type = &mt
	}
	return c
}
