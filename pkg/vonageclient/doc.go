// Package vonageclient provides the entry point for constructing a Vonage
// API client that implements the vonage.Client interface.
//
// It validates configuration, signs the first application token, and wires
// the token manager and the HTTP request pipeline on top of the types defined
// in the vonage package.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//	  "os"
//	  "time"
//
//	  "github.com/fivetwenty-io/vonage-client/pkg/vonage"
//	  "github.com/fivetwenty-io/vonage-client/pkg/vonageclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  cli, err := vonageclient.NewBuilder().
//	    ApplicationID(os.Getenv("VONAGE_APPLICATION_ID")).
//	    PrivateKeyFile("private.key").
//	    Region(vonage.RegionEU).
//	    RefreshWindow(5 * time.Minute).
//	    Build(ctx)
//	  if err != nil { log.Fatal(err) }
//
//	  call, err := vonage.NewNCCOCallBuilder().
//	    NCCO(vonage.NewNCCO().Talk("Hello from Vonage")).
//	    To(&vonage.PhoneEndpoint{Number: "447700900001"}).
//	    From("447700900000").
//	    Build()
//	  if err != nil { log.Fatal(err) }
//
//	  resp, err := cli.Voice().CreateOutboundCall(ctx, call)
//	  if err != nil { log.Fatal(err) }
//	  log.Println(resp.UUID)
//	}
//
// # Token refresh
//
// Without a refresh window the application token signed at build time is used
// for the life of the client. With one, the token is re-signed before a
// request once fewer than window + 5s remain. RefreshToken re-signs on demand.
//
// # Raw requests
//
// Get, Post, Put, Patch and Delete send authenticated requests to endpoints
// that have no typed client and decode the response into any type.
package vonageclient
