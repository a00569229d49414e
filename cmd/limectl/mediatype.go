package main

import (
	"github.com/spf13/cobra"

	"github.com/sufield/lime/internal/domain"
	"github.com/sufield/lime/pkg/documents"
)

func newMediaTypeCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "mediatype [media-type]",
		Short: "Look up the document kind registered for a media type",
		Example: `  limectl mediatype application/vnd.lime.text+json
  limectl mediatype --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := documents.Default()

			if list {
				for _, r := range reg.Registrations() {
					cmd.Printf("%-40s %s\n", r.MediaType.Key(), r.Kind)
				}
				return nil
			}
			if len(args) == 0 {
				return cmd.Usage()
			}

			mt, err := domain.ParseMediaType(args[0])
			if err != nil {
				return err
			}
			kind, _ := reg.Resolve(mt)
			cmd.Printf("key:  %s\n", mt.Key())
			cmd.Printf("kind: %s\n", kind)
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "list every registered media type")
	return cmd
}
