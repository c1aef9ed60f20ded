package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/signadot/ansiblels/lsp"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-version" || os.Args[1] == "--version") {
		fmt.Println(lsp.Name, lsp.Version)
		return
	}
	ctx := context.Background()
	stream := jsonrpc2.NewStream(&stdioReadWriteCloser{
		read:  os.Stdin,
		write: os.Stdout,
	})
	conn := jsonrpc2.NewConn(stream)
	logger := lsp.Logger()
	defer logger.Sync()
	client := protocol.ClientDispatcher(conn, logger)
	server := lsp.New(client, logger)
	conn.Go(ctx, protocol.ServerHandler(server, nil))
	select {
	case <-conn.Done():
	case <-server.Done():
		conn.Close()
	}
	if err := conn.Err(); err != nil && err != io.EOF {
		logger.Sugar().Debugf("connection: %v", err)
	}
}

type stdioReadWriteCloser struct {
	read  io.Reader
	write io.Writer
}

func (s *stdioReadWriteCloser) Read(p []byte) (n int, err error) {
	return s.read.Read(p)
}

func (s *stdioReadWriteCloser) Write(p []byte) (n int, err error) {
	return s.write.Write(p)
}

func (s *stdioReadWriteCloser) Close() error {
	return nil
}
