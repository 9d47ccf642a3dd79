package main

import (
	"fmt"
	"log"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

func main() {
	fmt.Println("╔══════════════════════════════════════╗")
	fmt.Println("║       VoxelVision Launcher           ║")
	fmt.Println("╚══════════════════════════════════════╝")

	serverBin := "server"
	clientBin := "client"
	if runtime.GOOS == "windows" {
		serverBin = "server.exe"
		clientBin = "client.exe"
	}

	// 1. Servidor primeiro: o cliente tem retry, mas dar uma folga evita
	// a espera visível na splash screen.
	fmt.Println("[1/2] Iniciando Servidor...")
	serverPath, err := filepath.Abs(filepath.Join("servidor", serverBin))
	if err != nil {
		log.Fatalf("Erro ao resolver caminho do servidor: %v", err)
	}
	serverCmd := exec.Command(serverPath)
	serverCmd.Dir = "servidor"
	if err := serverCmd.Start(); err != nil {
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}

	fmt.Println("Aguardando inicialização do servidor...")
	time.Sleep(3 * time.Second)

	// 2. Cliente
	fmt.Println("[2/2] Abrindo Cliente...")
	clientPath, err := filepath.Abs(filepath.Join("cliente", clientBin))
	if err != nil {
		log.Fatalf("Erro ao resolver caminho do cliente: %v", err)
	}
	clientCmd := exec.Command(clientPath)
	clientCmd.Dir = "cliente"
	if err := clientCmd.Start(); err != nil {
		fmt.Printf("ERRO CRÍTICO: Não foi possível executar o cliente em %s\n", clientPath)
		fmt.Printf("Detalhes: %v\n", err)
		fmt.Println("Pressione Enter para sair...")
		fmt.Scanln()
		return
	}

	fmt.Println("\nSucesso! VoxelVision foi iniciado.")
	fmt.Println("O Launcher fechará automaticamente em 2 segundos...")
	time.Sleep(2 * time.Second)
}
