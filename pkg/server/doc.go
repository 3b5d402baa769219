// Package server serves a router over TCP, one request per connection.
//
// For every accepted connection the server:
//  1. Reads one request with message.Parser (under ReadTimeout)
//  2. Dispatches it through the router
//  3. Serializes the response (under WriteTimeout) and closes
//
// A request the parser rejects is answered with 400 Bad Request, a
// request no route matches with 404 Not Found, and a handler that
// returns no response with 500 Internal Server Error. A stream that ends
// before its first byte is closed without a response.
//
// # Shutdown
//
// Serve returns when its context is cancelled. The listener is closed at
// once and in-flight connections get ShutdownTimeout to finish before
// they are closed forcibly.
//
//	srv := server.New(r, server.DefaultConfig().WithAddress(":8080"))
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	if err := srv.ListenAndServe(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
