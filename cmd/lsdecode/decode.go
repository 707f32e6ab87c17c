package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	bgpls "github.com/opendaylight/bgpcep-sub008"
)

type destinationView struct {
	Type               string      `yaml:"type"`
	Protocol           string      `yaml:"protocol"`
	Identifier         uint64      `yaml:"identifier"`
	RouteDistinguisher string      `yaml:"route-distinguisher,omitempty"`
	Object             interface{} `yaml:"object"`
}

func newDestinationView(d *bgpls.Destination) destinationView {
	v := destinationView{
		Type:       d.Object.Kind().String(),
		Protocol:   d.ProtocolID.String(),
		Identifier: d.Identifier,
		Object:     d.Object,
	}
	if d.RouteDistinguisher != nil {
		v.RouteDistinguisher = fmt.Sprintf("%x", d.RouteDistinguisher[:])
	}

	return v
}

type routeView struct {
	Destination destinationView `yaml:"destination"`
	Attribute   interface{}     `yaml:"attribute"`
}

type updateView struct {
	NextHop   string            `yaml:"next-hop,omitempty"`
	Routes    []routeView       `yaml:"routes,omitempty"`
	Withdrawn []destinationView `yaml:"withdrawn,omitempty"`
}

func (a *app) render(w io.Writer, v interface{}) error {
	switch format := a.v.GetString("format"); format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		_, err := pretty.Fprintf(w, "%# v\n", v)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func newNlriCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "nlri <hex>",
		Short: "decode a sequence of link state nlri",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := decodeHex(args[0])
			if err != nil {
				return err
			}

			opts := a.options()
			if a.v.GetBool("vpn") {
				opts = append(opts, bgpls.WithVPN())
			}

			ds, decodeErr := bgpls.NewNlriRegistry(opts...).Decode(b)

			views := make([]destinationView, 0, len(ds))
			for _, d := range ds {
				views = append(views, newDestinationView(d))
			}
			if err := a.render(cmd.OutOrStdout(), views); err != nil {
				return err
			}

			return decodeErr
		},
	}
}

func newAttrCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attr <hex>",
		Short: "decode a bgp-ls attribute for one kind of nlri",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := decodeHex(args[0])
			if err != nil {
				return err
			}

			kind, err := bgpls.ParseObjectKind(a.v.GetString("object"))
			if err != nil {
				return err
			}
			id, err := bgpls.ParseProtocolID(a.v.GetString("protocol"))
			if err != nil {
				return err
			}

			attr, err := bgpls.NewAttributeRegistry(a.options()...).Decode(kind, id, b)
			if err != nil {
				return err
			}

			return a.render(cmd.OutOrStdout(), attr)
		},
	}

	cmd.Flags().String("object", "node", "object kind, node, link, prefix or te-lsp")
	cmd.Flags().String("protocol", "isis-l1", "originating protocol")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "decode mp reach and mp unreach bodies and pair them with a bgp-ls attribute",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := bgpls.NewUpdateCodec(a.options()...)

			var (
				view updateView
				errs []error
			)

			if s := a.v.GetString("reach"); s != "" {
				b, err := decodeHex(s)
				if err != nil {
					return err
				}

				reach, err := c.DecodeMpReach(b)
				if reach == nil {
					return err
				}
				errs = append(errs, err)
				view.NextHop = fmt.Sprintf("%x", reach.NextHop)

				var attr []byte
				if s := a.v.GetString("attr"); s != "" {
					if attr, err = decodeHex(s); err != nil {
						return err
					}
				}

				routes, err := c.Pair(reach.Destinations, attr)
				errs = append(errs, err)
				for _, r := range routes {
					view.Routes = append(view.Routes, routeView{
						Destination: newDestinationView(r.Destination),
						Attribute:   r.Attribute,
					})
				}
			}

			if s := a.v.GetString("unreach"); s != "" {
				b, err := decodeHex(s)
				if err != nil {
					return err
				}

				unreach, err := c.DecodeMpUnreach(b)
				if unreach == nil {
					return err
				}
				errs = append(errs, err)
				for _, d := range unreach.Destinations {
					view.Withdrawn = append(view.Withdrawn, newDestinationView(d))
				}
			}

			if err := a.render(cmd.OutOrStdout(), view); err != nil {
				return err
			}

			return errors.Join(errs...)
		},
	}

	cmd.Flags().String("reach", "", "mp reach attribute body")
	cmd.Flags().String("unreach", "", "mp unreach attribute body")
	cmd.Flags().String("attr", "", "bgp-ls attribute body")
	return cmd
}
